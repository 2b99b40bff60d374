// Package route computes node geometry and edge paths in logical units and
// caches edge paths with explicit invalidation.
package route

import (
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
)

// Default node box and port hit radius in logical units
const (
	DefaultNodeWidth  = 160
	DefaultNodeHeight = 60
	DefaultPortRadius = 10
)

// Geometry describes how nodes occupy the logical plane. Input ports sit on
// the top edge and output ports on the bottom edge, matching the top-down
// level layout.
type Geometry struct {
	NodeSize   geom.Size
	PortRadius float64
}

// DefaultGeometry returns the standard 160x60 node with 10-unit ports
func DefaultGeometry() Geometry {
	return Geometry{
		NodeSize:   geom.Size{W: DefaultNodeWidth, H: DefaultNodeHeight},
		PortRadius: DefaultPortRadius,
	}
}

// Bounds returns the node's rectangle
func (g Geometry) Bounds(n graph.Node) geom.Rect {
	return geom.RectAt(n.Position, g.NodeSize)
}

// InputAnchor returns the position of the named input port
func (g Geometry) InputAnchor(n graph.Node, port string) geom.Point {
	return geom.Pt(n.Position.X+g.slotX(n.Inputs, port), n.Position.Y)
}

// OutputAnchor returns the position of the named output port
func (g Geometry) OutputAnchor(n graph.Node, port string) geom.Point {
	return geom.Pt(n.Position.X+g.slotX(n.Outputs, port), n.Position.Y+g.NodeSize.H)
}

// slotX spreads ports evenly across the width; undeclared ports use the center
func (g Geometry) slotX(ports []graph.Port, name string) float64 {
	for i, p := range ports {
		if p.Name == name {
			return g.NodeSize.W * float64(i+1) / float64(len(ports)+1)
		}
	}
	return g.NodeSize.W / 2
}

// PortKind tells inputs from outputs
type PortKind int

// Port kinds
const (
	InputPort PortKind = iota
	OutputPort
)

// PortHit is a port found under a point
type PortHit struct {
	Node string
	Port string
	Kind PortKind
}

// PortAt returns the port of n within PortRadius of p, preferring the closest
func (g Geometry) PortAt(n graph.Node, p geom.Point) (PortHit, bool) {
	best := g.PortRadius
	var hit PortHit
	found := false
	for _, port := range n.Inputs {
		if d := p.Dist(g.InputAnchor(n, port.Name)); d <= best {
			best, hit, found = d, PortHit{Node: n.ID, Port: port.Name, Kind: InputPort}, true
		}
	}
	for _, port := range n.Outputs {
		if d := p.Dist(g.OutputAnchor(n, port.Name)); d <= best {
			best, hit, found = d, PortHit{Node: n.ID, Port: port.Name, Kind: OutputPort}, true
		}
	}
	return hit, found
}

// ContentBounds returns the rectangle covering every node plus margin, always
// including the logical origin
func (g Geometry) ContentBounds(nodes []graph.Node, margin float64) geom.Rect {
	r := geom.Rect{}
	for _, n := range nodes {
		r = r.Union(g.Bounds(n))
	}
	r.Max = r.Max.Add(geom.Pt(margin, margin))
	return r
}
