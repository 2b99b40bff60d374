package graph

import (
	"fmt"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
)

// Status is the execution status of a node as reported by the backend
type Status string

// Node statuses
const (
	StatusPending   Status = "pending"
	StatusPlanning  Status = "planning"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusPlanning,
	StatusRunning,
	StatusCompleted,
	StatusFailed,
	StatusPaused,
	StatusCancelled,
}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown node status %q", s)
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Default port names used when a node does not declare its own
const (
	DefaultInputPort  = "in"
	DefaultOutputPort = "out"
)

// Port is a named input or output slot on a node
type Port struct {
	Name string `json:"name" yaml:"name"`
}

// Node is one workflow step or tool invocation on the canvas
type Node struct {
	ID           string
	Kind         string
	Label        string
	Position     geom.Point
	Status       Status
	Progress     *int
	Dependencies []string
	Inputs       []Port
	Outputs      []Port
	Params       map[string]any
	Metadata     map[string]any
}

// DisplayName returns the label, falling back to the id
func (n Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// HasInput reports whether the node declares an input port with this name
func (n Node) HasInput(port string) bool {
	return hasPort(n.Inputs, port)
}

// HasOutput reports whether the node declares an output port with this name
func (n Node) HasOutput(port string) bool {
	return hasPort(n.Outputs, port)
}

// DependsOn reports whether id is one of the node's dependencies
func (n Node) DependsOn(id string) bool {
	for _, dep := range n.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

func hasPort(ports []Port, name string) bool {
	for _, p := range ports {
		if p.Name == name {
			return true
		}
	}
	return false
}

// EdgeKey is the identity of an edge: no two edges share a key
type EdgeKey struct {
	From     string
	FromPort string
	To       string
	ToPort   string
}

// String renders the key as from.port->to.port
func (k EdgeKey) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", k.From, k.FromPort, k.To, k.ToPort)
}

// Touches reports whether either endpoint is id
func (k EdgeKey) Touches(id string) bool {
	return k.From == id || k.To == id
}

// Edge is a directed link from an output port to an input port
type Edge struct {
	Key EdgeKey
}

// Snapshot is a deep copy of the full graph state
type Snapshot struct {
	Nodes []Node
	Edges []Edge
}

// Clone returns a deep copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	copy(out.Edges, s.Edges)
	return out
}

// Clone returns a deep copy of the node
func (n Node) Clone() Node {
	out := n
	if n.Progress != nil {
		p := *n.Progress
		out.Progress = &p
	}
	out.Dependencies = cloneStrings(n.Dependencies)
	out.Inputs = clonePorts(n.Inputs)
	out.Outputs = clonePorts(n.Outputs)
	out.Params = cloneMap(n.Params)
	out.Metadata = cloneMap(n.Metadata)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clonePorts(in []Port) []Port {
	if in == nil {
		return nil
	}
	out := make([]Port, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types produced by JSON and YAML decoding.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneStrings(val)
	default:
		return v
	}
}
