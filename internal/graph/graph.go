// Package graph implements the mutable node/edge model behind the canvas.
//
// Every mutation keeps the two views of the dependency relation in sync: a
// node lists another node as a dependency exactly when at least one edge runs
// between them. Invalid edits are rejected by returning false and leaving the
// graph untouched; nothing in this package returns an error for an edit.
package graph

import (
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
)

// Graph is the live node/edge set owned by a single canvas
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// New creates an empty graph
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Has reports whether a node with this id exists
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns a copy of the node with the given id
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i].Clone(), true
}

// Nodes returns copies of all nodes in insertion order
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// HasEdge reports whether the exact tuple exists
func (g *Graph) HasEdge(key EdgeKey) bool {
	for _, e := range g.edges {
		if e.Key == key {
			return true
		}
	}
	return false
}

// IncidentEdges returns the keys of all edges touching id
func (g *Graph) IncidentEdges(id string) []EdgeKey {
	var out []EdgeKey
	for _, e := range g.edges {
		if e.Key.Touches(id) {
			out = append(out, e.Key)
		}
	}
	return out
}

// AddNode inserts a node. Empty and duplicate ids are rejected. Declared
// dependencies on existing nodes become edges on the default ports; the rest
// are dropped.
func (g *Graph) AddNode(n Node) bool {
	if n.ID == "" || g.Has(n.ID) {
		return false
	}
	n = n.Clone()
	applyDefaults(&n)
	deps := n.Dependencies
	n.Dependencies = nil
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	for _, dep := range deps {
		g.connectDefault(dep, n.ID)
	}
	return true
}

// RemoveNode deletes a node, every edge touching it, and every dependency
// reference to it.
func (g *Graph) RemoveNode(id string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	g.reindex()

	kept := g.edges[:0]
	for _, e := range g.edges {
		if !e.Key.Touches(id) {
			kept = append(kept, e)
		}
	}
	g.edges = kept

	for j := range g.nodes {
		g.nodes[j].Dependencies = removeString(g.nodes[j].Dependencies, id)
	}
	return true
}

// AddEdge connects from.fromPort to to.toPort. It is a no-op when the tuple
// already exists, when from == to, when either node is missing, or when a
// port is not declared on its node.
func (g *Graph) AddEdge(from, fromPort, to, toPort string) bool {
	key := EdgeKey{From: from, FromPort: fromPort, To: to, ToPort: toPort}
	if !g.CanAddEdge(key) {
		return false
	}
	g.edges = append(g.edges, Edge{Key: key})
	target := &g.nodes[g.index[to]]
	if !target.DependsOn(from) {
		target.Dependencies = append(target.Dependencies, from)
	}
	return true
}

// CanAddEdge reports whether AddEdge would accept the key. The source port
// must be a declared output and the target port a declared input.
func (g *Graph) CanAddEdge(key EdgeKey) bool {
	if key.From == key.To {
		return false
	}
	from, ok := g.index[key.From]
	if !ok {
		return false
	}
	to, ok := g.index[key.To]
	if !ok {
		return false
	}
	if !g.nodes[from].HasOutput(key.FromPort) || !g.nodes[to].HasInput(key.ToPort) {
		return false
	}
	return !g.HasEdge(key)
}

// RemoveEdge removes every edge from -> to regardless of ports and returns
// how many were removed
func (g *Graph) RemoveEdge(from, to string) int {
	removed := 0
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.Key.From == from && e.Key.To == to {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept
	if removed > 0 {
		g.syncDependency(from, to)
	}
	return removed
}

// RemoveEdgeKey removes the port-qualified edge
func (g *Graph) RemoveEdgeKey(key EdgeKey) bool {
	for i, e := range g.edges {
		if e.Key == key {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			g.syncDependency(key.From, key.To)
			return true
		}
	}
	return false
}

// UpdateNodeStatus sets status and progress. A nil progress clears it.
func (g *Graph) UpdateNodeStatus(id string, status Status, progress *int) bool {
	i, ok := g.index[id]
	if !ok || !status.Valid() {
		return false
	}
	g.nodes[i].Status = status
	if progress == nil {
		g.nodes[i].Progress = nil
	} else {
		p := clampProgress(*progress)
		g.nodes[i].Progress = &p
	}
	return true
}

// UpdateNodeParams merges params into the node; a nil value deletes the key
func (g *Graph) UpdateNodeParams(id string, params map[string]any) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	n := &g.nodes[i]
	if n.Params == nil {
		n.Params = make(map[string]any, len(params))
	}
	for k, v := range params {
		if v == nil {
			delete(n.Params, k)
			continue
		}
		n.Params[k] = cloneValue(v)
	}
	return true
}

// SetLabel changes the display name of a node
func (g *Graph) SetLabel(id, label string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Label = label
	return true
}

// MoveNode sets the logical position of a node
func (g *Graph) MoveNode(id string, p geom.Point) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Position = p
	return true
}

// Snapshot deep-copies the current state
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Nodes: g.nodes, Edges: g.edges}.Clone()
}

// Restore replaces the live state with a deep copy of s
func (g *Graph) Restore(s Snapshot) {
	c := s.Clone()
	g.nodes = c.Nodes
	g.edges = c.Edges
	g.reindex()
}

func (g *Graph) connectDefault(from, to string) {
	src, ok := g.index[from]
	if !ok {
		return
	}
	dst := g.index[to]
	g.AddEdge(from, firstPort(g.nodes[src].Outputs, DefaultOutputPort), to, firstPort(g.nodes[dst].Inputs, DefaultInputPort))
}

// syncDependency drops from out of to's dependencies once no edge joins them
func (g *Graph) syncDependency(from, to string) {
	for _, e := range g.edges {
		if e.Key.From == from && e.Key.To == to {
			return
		}
	}
	if i, ok := g.index[to]; ok {
		g.nodes[i].Dependencies = removeString(g.nodes[i].Dependencies, from)
	}
}

func (g *Graph) reindex() {
	g.index = make(map[string]int, len(g.nodes))
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}

func applyDefaults(n *Node) {
	if n.Status == "" {
		n.Status = StatusPending
	}
	if len(n.Inputs) == 0 {
		n.Inputs = []Port{{Name: DefaultInputPort}}
	}
	if len(n.Outputs) == 0 {
		n.Outputs = []Port{{Name: DefaultOutputPort}}
	}
	if n.Progress != nil {
		p := clampProgress(*n.Progress)
		n.Progress = &p
	}
}

func firstPort(ports []Port, fallback string) string {
	if len(ports) == 0 {
		return fallback
	}
	return ports[0].Name
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func removeString(in []string, s string) []string {
	if len(in) == 0 {
		return in
	}
	out := in[:0]
	for _, v := range in {
		if v != s {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
