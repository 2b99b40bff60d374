package plan

// Document is the on-disk form of a workflow graph
type Document struct {
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []NodeSpec `json:"nodes" yaml:"nodes"`
	// Edges lists port-qualified connections. Edges implied by depends_on
	// on the default ports need not be repeated here.
	Edges []EdgeSpec `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// NodeSpec is one node of a plan
type NodeSpec struct {
	ID        string         `json:"id" yaml:"id"`
	Kind      string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Label     string         `json:"label,omitempty" yaml:"label,omitempty"`
	DependsOn []string       `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Position  *Position      `json:"position,omitempty" yaml:"position,omitempty"` // nil means auto-layout
	Inputs    []string       `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs   []string       `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Status    string         `json:"status,omitempty" yaml:"status,omitempty"`
	Progress  *int           `json:"progress,omitempty" yaml:"progress,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Position is a logical canvas coordinate
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// EdgeSpec uses the same field names as the detailed edge export
type EdgeSpec struct {
	FromNode string `json:"from_node" yaml:"from_node"`
	ToNode   string `json:"to_node" yaml:"to_node"`
	FromPort string `json:"from_port" yaml:"from_port"`
	ToPort   string `json:"to_port" yaml:"to_port"`
}
