package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// SimpleEdge is the node-pair form of an edge
type SimpleEdge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DetailedEdge is the port-qualified export form. Field names are part of the
// round-trip contract with execution backends.
type DetailedEdge struct {
	FromNode string `json:"from_node" yaml:"from_node"`
	ToNode   string `json:"to_node" yaml:"to_node"`
	FromPort string `json:"from_port" yaml:"from_port"`
	ToPort   string `json:"to_port" yaml:"to_port"`
}

// Key converts the export form back into an edge key
func (d DetailedEdge) Key() EdgeKey {
	return EdgeKey{From: d.FromNode, FromPort: d.FromPort, To: d.ToNode, ToPort: d.ToPort}
}

// Detailed converts a key to its export form
func (k EdgeKey) Detailed() DetailedEdge {
	return DetailedEdge{FromNode: k.From, ToNode: k.To, FromPort: k.FromPort, ToPort: k.ToPort}
}

// SimpleEdges returns one entry per distinct node pair, in edge order
func (g *Graph) SimpleEdges() []SimpleEdge {
	seen := make(map[SimpleEdge]bool, len(g.edges))
	out := make([]SimpleEdge, 0, len(g.edges))
	for _, e := range g.edges {
		se := SimpleEdge{From: e.Key.From, To: e.Key.To}
		if seen[se] {
			continue
		}
		seen[se] = true
		out = append(out, se)
	}
	return out
}

// DetailedEdges returns every edge in export form, in edge order
func (g *Graph) DetailedEdges() []DetailedEdge {
	out := make([]DetailedEdge, len(g.edges))
	for i, e := range g.edges {
		out[i] = e.Key.Detailed()
	}
	return out
}

type canonicalNode struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Label    string         `json:"label"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Inputs   []Port         `json:"inputs"`
	Outputs  []Port         `json:"outputs"`
	Params   map[string]any `json:"params"`
	Metadata map[string]any `json:"metadata"`
}

// Fingerprint hashes the user-editable part of the graph. Status and
// progress are excluded so telemetry does not mark the graph as edited.
func (g *Graph) Fingerprint() (string, error) {
	nodes := make([]canonicalNode, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = canonicalNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			X:        n.Position.X,
			Y:        n.Position.Y,
			Inputs:   n.Inputs,
			Outputs:  n.Outputs,
			Params:   n.Params,
			Metadata: n.Metadata,
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := g.DetailedEdges()
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Key().String() < edges[j].Key().String()
	})

	canonical, err := json.Marshal(struct {
		Nodes []canonicalNode `json:"nodes"`
		Edges []DetailedEdge  `json:"edges"`
	}{nodes, edges})
	if err != nil {
		return "", fmt.Errorf("canonicalize graph: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash graph: %w", err)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
