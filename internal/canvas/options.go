package canvas

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/flowcanvas/internal/frame"
	"github.com/felixgeelhaar/flowcanvas/internal/geom"
	"github.com/felixgeelhaar/flowcanvas/internal/graph"
	"github.com/felixgeelhaar/flowcanvas/internal/history"
	"github.com/felixgeelhaar/flowcanvas/internal/interaction"
	"github.com/felixgeelhaar/flowcanvas/internal/layout"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/metrics"
	"github.com/felixgeelhaar/flowcanvas/internal/route"
	"github.com/felixgeelhaar/flowcanvas/internal/viewport"
)

// Defaults for Options
const (
	DefaultClickTolerance = 3
	DefaultContentMargin  = 50
	DefaultEdgeTolerance  = 6
	DefaultDuplicateShift = 50
)

// NoThrottle disables drag throttling when set as Options.DragThrottle
const NoThrottle time.Duration = -1

// NodeClick is emitted when a node is pressed and released without moving
type NodeClick struct {
	ID       string
	Additive bool
}

// EdgeClick is emitted when an edge is pressed. From and To are the endpoint
// node ids.
type EdgeClick struct {
	Key  graph.EdgeKey
	From string
	To   string
}

// Options configures a Canvas. The zero value of every field falls back to
// its default, so callers usually start from DefaultOptions and override.
type Options struct {
	MaxHistory int
	MinZoom    float64
	MaxZoom    float64

	// DragThrottle is the minimum time between partial edge recomputes
	// while a node is dragged. Use NoThrottle to recompute on every frame.
	DragThrottle time.Duration

	// DuplicateOffset is added to the position of a duplicated node
	DuplicateOffset geom.Point

	// ClickTolerance is how far, in screen units, the pointer may travel
	// between press and release and still count as a click. A negative
	// value means no travel at all.
	ClickTolerance float64

	// EdgeTolerance is the logical hit distance for edges
	EdgeTolerance float64

	// ContentMargin pads the content bounds used for the fit scale
	ContentMargin float64

	// PanModifier turns a primary press into a canvas pan
	PanModifier interaction.Modifiers

	Layout   layout.Options
	Geometry route.Geometry

	// Frames is asked for a frame whenever deferred work is pending; the
	// host answers by calling Canvas.Frame
	Frames frame.Requester
	Clock  func() time.Time
	NewID  func() string

	Logger  *log.Logger
	Metrics *metrics.Metrics

	OnNodeClick func(NodeClick)
	OnEdgeClick func(EdgeClick)
	// OnCycle receives the ids of nodes found on a dependency cycle during
	// layout; they were placed on the top level
	OnCycle func(cyclic []string)
}

// DefaultOptions returns the standard configuration
func DefaultOptions() Options {
	return Options{
		MaxHistory:      history.DefaultMaxHistory,
		MinZoom:         viewport.DefaultMinZoom,
		MaxZoom:         viewport.DefaultMaxZoom,
		DragThrottle:    frame.DefaultThrottle,
		DuplicateOffset: geom.Pt(DefaultDuplicateShift, DefaultDuplicateShift),
		ClickTolerance:  DefaultClickTolerance,
		EdgeTolerance:   DefaultEdgeTolerance,
		ContentMargin:   DefaultContentMargin,
		PanModifier:     interaction.ModAlt,
		Layout:          layout.DefaultOptions(),
		Geometry:        route.DefaultGeometry(),
		Clock:           time.Now,
		NewID:           uuid.NewString,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxHistory <= 0 {
		o.MaxHistory = d.MaxHistory
	}
	if o.MinZoom <= 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = d.MaxZoom
	}
	switch {
	case o.DragThrottle == 0:
		o.DragThrottle = d.DragThrottle
	case o.DragThrottle < 0:
		o.DragThrottle = 0
	}
	if o.DuplicateOffset == (geom.Point{}) {
		o.DuplicateOffset = d.DuplicateOffset
	}
	if o.PanModifier == 0 {
		o.PanModifier = d.PanModifier
	}
	if o.ContentMargin <= 0 {
		o.ContentMargin = d.ContentMargin
	}
	switch {
	case o.ClickTolerance == 0:
		o.ClickTolerance = d.ClickTolerance
	case o.ClickTolerance < 0:
		o.ClickTolerance = 0
	}
	if o.EdgeTolerance <= 0 {
		o.EdgeTolerance = d.EdgeTolerance
	}
	if o.Layout.SpacingX <= 0 || o.Layout.SpacingY <= 0 {
		o.Layout = d.Layout
	}
	if o.Geometry.NodeSize.Empty() {
		o.Geometry = d.Geometry
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.NewID == nil {
		o.NewID = d.NewID
	}
	if o.Logger == nil {
		o.Logger = log.Discard()
	}
	return o
}
