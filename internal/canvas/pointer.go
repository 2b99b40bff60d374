package canvas

import (
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/metrics"
	"github.com/felixgeelhaar/flowcanvas/internal/route"
)

// Interaction outcomes recorded in metrics
const (
	outcomeCommitted = "committed"
	outcomeClick     = "click"
	outcomeCancelled = "cancelled"
	outcomeReleased  = "released"
)

// HitTest returns what lies under a logical point. Nodes drawn later are on
// top. Ports win over bodies, bodies over edges.
func (c *Canvas) HitTest(p geom.Point) interaction.Hit {
	geo := c.opts.Geometry
	nodes := c.graph.Nodes()

	for i := len(nodes) - 1; i >= 0; i-- {
		if port, ok := geo.PortAt(nodes[i], p); ok {
			kind := interaction.TargetInputPort
			if port.Kind == route.OutputPort {
				kind = interaction.TargetOutputPort
			}
			return interaction.Hit{Kind: kind, Node: port.Node, Port: port.Port}
		}
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		if geo.Bounds(nodes[i]).Contains(p) {
			return interaction.Hit{Kind: interaction.TargetNode, Node: nodes[i].ID}
		}
	}

	best := c.opts.EdgeTolerance
	var hit interaction.Hit
	for _, key := range c.EdgeKeys() {
		path, ok := c.paths.Path(key)
		if !ok {
			continue
		}
		if d := path.Distance(p); d <= best {
			best = d
			hit = interaction.Hit{Kind: interaction.TargetEdge, Edge: key}
		}
	}
	return hit
}

// PointerDown starts an interaction. It returns false when the press starts
// nothing or another interaction is already active.
func (c *Canvas) PointerDown(p interaction.Pointer) bool {
	if c.machine.Active() {
		return false
	}
	logical := c.view.ScreenToLogical(p.Screen)
	hit := c.HitTest(logical)
	additive := p.Mods.Has(interaction.ModShift)

	switch interaction.Resolve(p, hit, c.opts.PanModifier) {
	case interaction.DraggingNode:
		n, _ := c.graph.Node(hit.Node)
		c.dragStart = c.graph.Snapshot()
		c.dragOrigin = n.Position
		c.throttle.Reset()
		return c.machine.Begin(interaction.State{
			Kind:     interaction.DraggingNode,
			Node:     n.ID,
			Grab:     logical.Sub(n.Position),
			Cursor:   logical,
			Press:    p.Screen,
			Additive: additive,
		})

	case interaction.PanningCanvas:
		return c.machine.Begin(interaction.State{
			Kind:   interaction.PanningCanvas,
			Anchor: p.Screen,
			Cursor: logical,
			Press:  p.Screen,
		})

	case interaction.DraggingConnection:
		return c.machine.Begin(interaction.State{
			Kind:   interaction.DraggingConnection,
			Node:   hit.Node,
			Port:   hit.Port,
			Cursor: logical,
			Press:  p.Screen,
		})

	case interaction.BoxSelecting:
		c.boxPrev = c.selection.IDs()
		return c.machine.Begin(interaction.State{
			Kind:     interaction.BoxSelecting,
			Anchor:   logical,
			Cursor:   logical,
			Press:    p.Screen,
			Additive: additive,
		})
	}

	if hit.Kind == interaction.TargetEdge && p.Button == interaction.ButtonPrimary && c.opts.OnEdgeClick != nil {
		c.opts.OnEdgeClick(EdgeClick{Key: hit.Edge, From: hit.Edge.From, To: hit.Edge.To})
	}
	return false
}

// PointerMove advances the active interaction. Node drags move the node and
// mark only its incident edges dirty; the paths are rebuilt on a later frame.
func (c *Canvas) PointerMove(p interaction.Pointer) {
	st := c.machine.State()
	if st.Kind == interaction.Idle {
		return
	}
	logical := c.view.ScreenToLogical(p.Screen)
	moved := st.Moved || p.Screen.Dist(st.Press) > c.opts.ClickTolerance

	switch st.Kind {
	case interaction.DraggingNode:
		if moved {
			c.graph.MoveNode(st.Node, logical.Sub(st.Grab).ClampMin(0))
			c.paths.InvalidateNode(c.graph, st.Node)
			c.frames.Request()
		}

	case interaction.PanningCanvas:
		d := p.Screen.Sub(st.Anchor)
		c.view.PanBy(d.X, d.Y)
		// the transform changed, so the logical cursor is taken after the pan
		logical = c.view.ScreenToLogical(p.Screen)
	}

	c.machine.Update(func(s *interaction.State) {
		s.Cursor = logical
		s.Moved = moved
		if s.Kind == interaction.PanningCanvas {
			s.Anchor = p.Screen
		}
	})

	if st.Kind == interaction.BoxSelecting {
		c.applyBox()
	}
}

// PointerUp finishes the active interaction
func (c *Canvas) PointerUp(p interaction.Pointer) bool {
	if !c.machine.Active() {
		return false
	}
	c.PointerMove(p)
	st := c.machine.State()

	switch st.Kind {
	case interaction.DraggingNode:
		c.finishDrag(st, true)

	case interaction.PanningCanvas:
		c.machine.End()
		c.m.RecordInteraction(st.Kind.String(), outcomeReleased)

	case interaction.DraggingConnection:
		c.machine.End()
		c.finishConnection(st, c.HitTest(st.Cursor))

	case interaction.BoxSelecting:
		c.applyBox()
		c.machine.End()
		c.boxPrev = nil
		c.m.RecordInteraction(st.Kind.String(), outcomeReleased)
	}
	return true
}

// CancelInteraction handles loss of pointer capture, such as the window
// losing focus. A node drag keeps its moves as if released; a connection is
// dropped; a box selection restores the previous selection.
func (c *Canvas) CancelInteraction() {
	st := c.machine.State()
	switch st.Kind {
	case interaction.Idle:
		return

	case interaction.DraggingNode:
		c.finishDrag(st, false)
		return

	case interaction.BoxSelecting:
		c.selection.Replace(c.boxPrev...)
		c.boxPrev = nil
	}
	c.machine.End()
	c.m.RecordInteraction(st.Kind.String(), outcomeCancelled)
}

// Frame runs deferred work. Hosts call it once per requested frame. During a
// node drag only the dirty incident edges are rebuilt, and no more often
// than the drag throttle allows; a throttled frame asks for another.
func (c *Canvas) Frame() {
	if !c.frames.Take() {
		return
	}
	if c.paths.DirtyCount() == 0 {
		return
	}
	if c.machine.Is(interaction.DraggingNode) && !c.throttle.Allow(c.opts.Clock()) {
		c.m.RecordFrameDeferred()
		c.frames.Request()
		return
	}
	n := c.paths.RecomputeDirty(c.graph)
	c.m.RecordRecompute(metrics.ScopePartial, n)
}

// FramePending reports whether the canvas is waiting for a frame
func (c *Canvas) FramePending() bool {
	return c.frames.Pending()
}

func (c *Canvas) finishDrag(st interaction.State, allowClick bool) {
	c.machine.End()
	start := c.dragStart
	c.dragStart = graph.Snapshot{}

	n, ok := c.graph.Node(st.Node)
	if ok && n.Position != c.dragOrigin {
		// the pre-drag state is recorded once, never per move
		c.history.Record(start)
		c.m.RecordEdit("move_node")
		c.refresh()
		c.m.RecordInteraction(st.Kind.String(), outcomeCommitted)
		c.log.Debug("node moved", "node", st.Node, "x", n.Position.X, "y", n.Position.Y)
		return
	}

	if !allowClick || !ok {
		c.m.RecordInteraction(st.Kind.String(), outcomeCancelled)
		return
	}
	if st.Additive {
		c.selection.Toggle(st.Node)
	} else {
		c.selection.Replace(st.Node)
	}
	c.m.RecordInteraction(st.Kind.String(), outcomeClick)
	if c.opts.OnNodeClick != nil {
		c.opts.OnNodeClick(NodeClick{ID: st.Node, Additive: st.Additive})
	}
}

func (c *Canvas) finishConnection(st interaction.State, hit interaction.Hit) {
	if hit.Kind != interaction.TargetInputPort || hit.Node == st.Node {
		c.m.RecordInteraction(st.Kind.String(), outcomeCancelled)
		return
	}
	if !c.AddEdge(st.Node, st.Port, hit.Node, hit.Port) {
		c.m.RecordInteraction(st.Kind.String(), outcomeCancelled)
		return
	}
	c.m.RecordInteraction(st.Kind.String(), outcomeCommitted)
}

// applyBox selects every node whose box intersects the rubber band. An
// additive box keeps what was selected before it started.
func (c *Canvas) applyBox() {
	box, ok := c.SelectionBox()
	if !ok {
		return
	}
	var ids []string
	if c.machine.State().Additive {
		ids = append(ids, c.boxPrev...)
	}
	for _, n := range c.graph.Nodes() {
		if c.opts.Geometry.Bounds(n).Intersects(box) {
			ids = append(ids, n.ID)
		}
	}
	c.selection.Replace(ids...)
}
