// Package geom holds the small amount of 2D math shared by the canvas
// packages. All values are logical or screen units depending on the caller.
package geom

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p*k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ClampMin returns p with each component raised to at least min.
func (p Point) ClampMin(min float64) Point {
	return Point{X: math.Max(p.X, min), Y: math.Max(p.Y, min)}
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min Point
	Max Point
}

// RectFromPoints builds the normalized rectangle spanning a and b.
func RectFromPoints(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// RectAt builds a rectangle from an origin and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{Min: origin, Max: Point{X: origin.X + size.W, Y: origin.Y + size.H}}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether r and o overlap, touching edges included.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.Max.X - r.Min.X, H: r.Max.Y - r.Min.Y}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// SegmentDist returns the distance from p to the segment ab.
func SegmentDist(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
