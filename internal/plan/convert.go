package plan

import (
	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// ToLoadSpec converts the document into a bulk canvas load. Nodes without a
// position are listed as unplaced so the canvas lays them out.
func (d *Document) ToLoadSpec() canvas.LoadSpec {
	spec := canvas.LoadSpec{
		Nodes: make([]graph.Node, 0, len(d.Nodes)),
	}

	for _, ns := range d.Nodes {
		n := graph.Node{
			ID:           ns.ID,
			Kind:         ns.Kind,
			Label:        ns.Label,
			Status:       graph.Status(ns.Status),
			Progress:     ns.Progress,
			Dependencies: ns.DependsOn,
			Inputs:       toPorts(ns.Inputs),
			Outputs:      toPorts(ns.Outputs),
			Params:       ns.Params,
			Metadata:     ns.Metadata,
		}
		if ns.Position == nil {
			spec.Unplaced = append(spec.Unplaced, ns.ID)
		} else {
			n.Position = geom.Pt(ns.Position.X, ns.Position.Y).ClampMin(0)
		}
		spec.Nodes = append(spec.Nodes, n)
	}

	for _, e := range d.Edges {
		spec.Edges = append(spec.Edges, graph.EdgeKey{From: e.FromNode, FromPort: e.FromPort, To: e.ToNode, ToPort: e.ToPort})
	}

	return spec
}

// FromCanvas captures the editable state of a canvas. Execution status is
// telemetry and is not written back.
func FromCanvas(c *canvas.Canvas) *Document {
	return FromGraph(c.Nodes(), c.DetailedEdges())
}

// FromGraph builds a document from nodes and their detailed edges. Every
// node gets a position. An edge on the default ports is written as a
// depends_on entry; any other edge is listed explicitly.
func FromGraph(nodes []graph.Node, edges []graph.DetailedEdge) *Document {
	doc := &Document{Nodes: make([]NodeSpec, 0, len(nodes))}

	present := make(map[graph.EdgeKey]bool, len(edges))
	for _, e := range edges {
		present[e.Key()] = true
	}
	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	implied := make(map[graph.EdgeKey]bool, len(edges))
	for _, n := range nodes {
		ns := NodeSpec{
			ID:       n.ID,
			Kind:     n.Kind,
			Label:    n.Label,
			Position: &Position{X: n.Position.X, Y: n.Position.Y},
			Inputs:   fromPorts(n.Inputs, graph.DefaultInputPort),
			Outputs:  fromPorts(n.Outputs, graph.DefaultOutputPort),
			Params:   n.Params,
			Metadata: n.Metadata,
		}
		for _, dep := range n.Dependencies {
			src, ok := byID[dep]
			if !ok {
				continue
			}
			key := graph.EdgeKey{
				From:     dep,
				FromPort: firstPortName(src.Outputs, graph.DefaultOutputPort),
				To:       n.ID,
				ToPort:   firstPortName(n.Inputs, graph.DefaultInputPort),
			}
			if present[key] {
				ns.DependsOn = append(ns.DependsOn, dep)
				implied[key] = true
			}
		}
		doc.Nodes = append(doc.Nodes, ns)
	}

	for _, e := range edges {
		if implied[e.Key()] {
			continue
		}
		doc.Edges = append(doc.Edges, EdgeSpec(e))
	}

	return doc
}

func toPorts(names []string) []graph.Port {
	if len(names) == 0 {
		return nil
	}
	ports := make([]graph.Port, len(names))
	for i, name := range names {
		ports[i] = graph.Port{Name: name}
	}
	return ports
}

// fromPorts omits the port list when it is just the default port
func fromPorts(ports []graph.Port, fallback string) []string {
	if len(ports) == 0 || len(ports) == 1 && ports[0].Name == fallback {
		return nil
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.Name
	}
	return names
}

func firstPortName(ports []graph.Port, fallback string) string {
	if len(ports) == 0 {
		return fallback
	}
	return ports[0].Name
}
