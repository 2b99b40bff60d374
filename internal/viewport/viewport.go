// Package viewport maps between screen (device) coordinates and logical graph
// coordinates under pan and zoom.
//
// Content is placed on screen by translating by the pan offset and then
// scaling by zoom*scale, where scale fits the logical content into the
// container at zoom 1:
//
//	screen  = origin + pan + logical*(zoom*scale)
//	logical = (screen - origin - pan) / (zoom*scale)
//
// Zoom is about the logical origin, not the cursor.
package viewport

import (
	"math"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
)

// Zoom bounds
const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 3.0
)

// Viewport holds pan, zoom and the fit-to-container scale
type Viewport struct {
	pan       geom.Point
	zoom      float64
	minZoom   float64
	maxZoom   float64
	origin    geom.Point
	container geom.Size
	content   geom.Size
	scale     float64
}

// New creates a viewport at zoom 1 with no pan
func New() *Viewport {
	return NewWithBounds(DefaultMinZoom, DefaultMaxZoom)
}

// NewWithBounds creates a viewport with custom zoom bounds. Invalid bounds
// fall back to the defaults.
func NewWithBounds(minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 || maxZoom < minZoom {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	return &Viewport{
		zoom:    clamp(1, minZoom, maxZoom),
		minZoom: minZoom,
		maxZoom: maxZoom,
		scale:   1,
	}
}

// Pan returns the current pan offset in screen units
func (v *Viewport) Pan() geom.Point { return v.pan }

// Zoom returns the current zoom factor
func (v *Viewport) Zoom() float64 { return v.zoom }

// Scale returns the fit-to-container scale
func (v *Viewport) Scale() float64 { return v.scale }

// Factor returns zoom*scale, the total logical-to-screen multiplier
func (v *Viewport) Factor() float64 { return v.zoom * v.scale }

// SetContainer sets the on-screen origin and size of the canvas area
func (v *Viewport) SetContainer(origin geom.Point, size geom.Size) {
	v.origin = origin
	v.container = size
	v.rescale()
}

// SetContent sets the logical size of the graph content
func (v *Viewport) SetContent(size geom.Size) {
	v.content = size
	v.rescale()
}

// ScreenToLogical converts a device position into graph coordinates
func (v *Viewport) ScreenToLogical(p geom.Point) geom.Point {
	f := v.Factor()
	return p.Sub(v.origin).Sub(v.pan).Scale(1 / f)
}

// LogicalToScreen converts graph coordinates into a device position
func (v *Viewport) LogicalToScreen(p geom.Point) geom.Point {
	return p.Scale(v.Factor()).Add(v.pan).Add(v.origin)
}

// ScreenDeltaToLogical converts a screen-space displacement into logical units
func (v *Viewport) ScreenDeltaToLogical(d geom.Point) geom.Point {
	return d.Scale(1 / v.Factor())
}

// SetZoom sets the zoom factor, clamped to the configured bounds
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	v.zoom = clamp(z, v.minZoom, v.maxZoom)
}

// ZoomBy adds delta to the zoom factor, clamped to the configured bounds
func (v *Viewport) ZoomBy(delta float64) {
	v.SetZoom(v.zoom + delta)
}

// PanBy shifts the pan offset by a screen-space delta
func (v *Viewport) PanBy(dx, dy float64) {
	v.pan = v.pan.Add(geom.Pt(dx, dy))
}

// Reset restores zoom 1 and zero pan
func (v *Viewport) Reset() {
	v.pan = geom.Point{}
	v.zoom = clamp(1, v.minZoom, v.maxZoom)
}

func (v *Viewport) rescale() {
	if v.container.Empty() || v.content.Empty() {
		v.scale = 1
		return
	}
	v.scale = math.Min(v.container.W/v.content.W, v.container.H/v.content.H)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
