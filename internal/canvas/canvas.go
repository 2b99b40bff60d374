// Package canvas ties the graph model, viewport, layout, history, selection
// and pointer interaction into one editable canvas.
//
// A Canvas is single-threaded. Hosts serialize every call, typically from
// their event loop, and answer frame requests by calling Frame. Nothing here
// returns an error for an edit: invalid edits return false and change
// nothing.
package canvas

import (
	"github.com/felixgeelhaar/flowcanvas/internal/frame"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/history"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/layout"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/metrics"
	"github.com/felixgeelhaar/flowcanvas/internal/route"
	"github.com/felixgeelhaar/flowcanvas/internal/selection"
	"github.com/felixgeelhaar/flowcanvas/internal/viewport"
)

// Canvas is one editable workflow graph with its view state
type Canvas struct {
	opts Options
	log  *log.Logger
	m    *metrics.Metrics

	graph     *graph.Graph
	view      *viewport.Viewport
	history   *history.Manager
	selection *selection.Set
	machine   *interaction.Machine
	paths     *route.Cache
	statuses  map[graph.EdgeKey]graph.EdgeStatus
	frames    *frame.Scheduler
	throttle  *frame.Throttle

	// set while a node drag is active
	dragStart  graph.Snapshot
	dragOrigin geom.Point
	// selection before the active box selection
	boxPrev []string
}

// New creates an empty canvas
func New(opts Options) *Canvas {
	opts = opts.withDefaults()
	g := graph.New()
	c := &Canvas{
		opts:      opts,
		log:       opts.Logger.With("component", "canvas"),
		m:         opts.Metrics,
		graph:     g,
		view:      viewport.NewWithBounds(opts.MinZoom, opts.MaxZoom),
		history:   history.New(g, opts.MaxHistory),
		selection: selection.New(),
		machine:   interaction.NewMachine(),
		paths:     route.NewCache(opts.Geometry),
		statuses:  make(map[graph.EdgeKey]graph.EdgeStatus),
		frames:    frame.NewScheduler(opts.Frames),
		throttle:  frame.NewThrottle(opts.DragThrottle),
	}
	c.machine.OnTransition(func(from, to interaction.State) {
		c.log.Debug("interaction transition", "from", from.Kind.String(), "to", to.Kind.String())
	})
	return c
}

// LoadSpec is a bulk replacement of the graph
type LoadSpec struct {
	Nodes []graph.Node
	// Edges are explicit port-qualified edges in addition to the edges
	// implied by node dependencies
	Edges []graph.EdgeKey
	// Unplaced lists nodes that carry no position; they are placed by
	// auto-layout
	Unplaced []string
}

// LoadReport describes what a load dropped and whether layout hit a cycle
type LoadReport struct {
	graph.ReplaceReport
	Cyclic []string
}

// Load replaces the whole graph. History and selection are cleared and any
// active interaction is abandoned. Bad references are dropped and reported.
func (c *Canvas) Load(spec LoadSpec) LoadReport {
	c.machine.End()
	c.dragStart = graph.Snapshot{}
	c.boxPrev = nil

	report := LoadReport{ReplaceReport: c.graph.Replace(spec.Nodes, spec.Edges)}

	if len(spec.Unplaced) > 0 {
		nodes := c.graph.Nodes()
		levels := layout.ComputeLevels(nodes)
		positions := layout.Place(nodes, levels, c.opts.Layout)
		for _, id := range spec.Unplaced {
			if p, ok := positions[id]; ok {
				c.graph.MoveNode(id, p)
			}
		}
		report.Cyclic = levels.Cyclic
		c.reportCycle(levels)
	}

	c.history.Clear()
	c.selection.Clear()
	c.FitContent()
	c.refresh()

	if report.InvalidNodes > 0 {
		c.log.Warn("dropped nodes without id", "count", report.InvalidNodes)
	}
	for _, id := range report.DuplicateNodes {
		c.log.Warn("dropped duplicate node", "node", id)
	}
	for _, ref := range report.DanglingRefs {
		c.log.Warn("dropped dangling dependency", "node", ref.Node, "dependency", ref.Dependency)
	}
	for _, key := range report.RejectedEdges {
		c.log.Warn("dropped invalid edge", "edge", key.String())
	}
	c.m.RecordLoad(len(report.DuplicateNodes), len(report.DanglingRefs), len(report.RejectedEdges), report.InvalidNodes)
	c.log.Info("graph loaded", "nodes", c.graph.Len(), "edges", len(c.graph.Edges()))
	return report
}

// UpdateNodeStatus applies execution telemetry. It is not a user edit and
// is never recorded in history. Edge statuses are recomputed in full.
func (c *Canvas) UpdateNodeStatus(id string, status graph.Status, progress *int) bool {
	ok := c.graph.UpdateNodeStatus(id, status, progress)
	c.m.RecordStatusUpdate(ok)
	if !ok {
		c.log.Debug("ignored status update", "node", id, "status", string(status))
		return false
	}
	c.recomputeStatuses()
	return true
}

// Nodes returns copies of all nodes
func (c *Canvas) Nodes() []graph.Node {
	return c.graph.Nodes()
}

// Node returns a copy of one node
func (c *Canvas) Node(id string) (graph.Node, bool) {
	return c.graph.Node(id)
}

// Edges returns the edges resolved to node pairs
func (c *Canvas) Edges() []graph.SimpleEdge {
	return c.graph.SimpleEdges()
}

// DetailedEdges returns the port-qualified edges
func (c *Canvas) DetailedEdges() []graph.DetailedEdge {
	return c.graph.DetailedEdges()
}

// EdgeKeys returns the key of every edge in insertion order
func (c *Canvas) EdgeKeys() []graph.EdgeKey {
	edges := c.graph.Edges()
	keys := make([]graph.EdgeKey, len(edges))
	for i, e := range edges {
		keys[i] = e.Key
	}
	return keys
}

// EdgeStatus returns the projected status of an edge
func (c *Canvas) EdgeStatus(key graph.EdgeKey) graph.EdgeStatus {
	if st, ok := c.statuses[key]; ok {
		return st
	}
	return graph.EdgeInactive
}

// Path returns the cached path of an edge in logical units
func (c *Canvas) Path(key graph.EdgeKey) (route.Path, bool) {
	return c.paths.Path(key)
}

// Geometry returns the node geometry used for hit testing and paths
func (c *Canvas) Geometry() route.Geometry {
	return c.opts.Geometry
}

// Snapshot returns a deep copy of the graph
func (c *Canvas) Snapshot() graph.Snapshot {
	return c.graph.Snapshot()
}

// Fingerprint hashes the editable content of the graph
func (c *Canvas) Fingerprint() (string, error) {
	return c.graph.Fingerprint()
}

// Viewport exposes the view transform for zooming and panning
func (c *Canvas) Viewport() *viewport.Viewport {
	return c.view
}

// SetContainer sets the on-screen area of the canvas
func (c *Canvas) SetContainer(origin geom.Point, size geom.Size) {
	c.view.SetContainer(origin, size)
}

// FitContent recomputes the fit scale from the current node bounds. It is
// not run during drags so the transform stays fixed under the pointer.
func (c *Canvas) FitContent() {
	bounds := c.opts.Geometry.ContentBounds(c.graph.Nodes(), c.opts.ContentMargin)
	c.view.SetContent(bounds.Size())
}

// Interaction returns the active interaction state
func (c *Canvas) Interaction() interaction.State {
	return c.machine.State()
}

// SelectionBox returns the rubber band rectangle while box selecting
func (c *Canvas) SelectionBox() (geom.Rect, bool) {
	st := c.machine.State()
	if st.Kind != interaction.BoxSelecting {
		return geom.Rect{}, false
	}
	return geom.RectFromPoints(st.Anchor, st.Cursor), true
}

// PendingConnection returns the source anchor and cursor while a connection
// is being dragged
func (c *Canvas) PendingConnection() (from, to geom.Point, ok bool) {
	st := c.machine.State()
	if st.Kind != interaction.DraggingConnection {
		return geom.Point{}, geom.Point{}, false
	}
	n, found := c.graph.Node(st.Node)
	if !found {
		return geom.Point{}, geom.Point{}, false
	}
	return c.opts.Geometry.OutputAnchor(n, st.Port), st.Cursor, true
}

// CanUndo reports whether Undo would change anything
func (c *Canvas) CanUndo() bool {
	return c.history.CanUndo()
}

// CanRedo reports whether Redo would change anything
func (c *Canvas) CanRedo() bool {
	return c.history.CanRedo()
}

// HistoryLen returns the number of undoable edits
func (c *Canvas) HistoryLen() int {
	return c.history.Len()
}

// refresh rebuilds every derived cache after a structural change
func (c *Canvas) refresh() {
	c.selection.Retain(c.graph.Has)
	n := c.paths.RecomputeAll(c.graph)
	c.m.RecordRecompute(metrics.ScopeFull, n)
	c.recomputeStatuses()
}

func (c *Canvas) recomputeStatuses() {
	c.statuses = c.graph.EdgeStatuses()
}

func (c *Canvas) reportCycle(levels layout.Levels) {
	if !levels.HasCycle() {
		return
	}
	c.m.RecordCycle()
	c.log.Warn("dependency cycle placed on top level", "nodes", levels.Cyclic)
	if c.opts.OnCycle != nil {
		c.opts.OnCycle(append([]string(nil), levels.Cyclic...))
	}
}
