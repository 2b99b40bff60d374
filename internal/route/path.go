package route

import (
	"math"

	"github.com/felixgeelhaar/flowcanvas/internal/geom"
)

// minBend keeps short edges visibly curved
const minBend = 40

// Path is a cubic Bézier from an output port to an input port
type Path struct {
	From geom.Point
	C1   geom.Point
	C2   geom.Point
	To   geom.Point
}

// NewPath builds the curve between two port anchors, leaving the source
// downward and entering the target from above
func NewPath(from, to geom.Point) Path {
	bend := math.Max(minBend, math.Abs(to.Y-from.Y)/2)
	return Path{
		From: from,
		C1:   geom.Pt(from.X, from.Y+bend),
		C2:   geom.Pt(to.X, to.Y-bend),
		To:   to,
	}
}

// At evaluates the curve at t in [0, 1]
func (p Path) At(t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return geom.Pt(
		a*p.From.X+b*p.C1.X+c*p.C2.X+d*p.To.X,
		a*p.From.Y+b*p.C1.Y+c*p.C2.Y+d*p.To.Y,
	)
}

// Sample returns n+1 evenly spaced points along the curve
func (p Path) Sample(n int) []geom.Point {
	if n < 1 {
		n = 1
	}
	out := make([]geom.Point, n+1)
	for i := 0; i <= n; i++ {
		out[i] = p.At(float64(i) / float64(n))
	}
	return out
}

// Distance approximates the distance from q to the curve
func (p Path) Distance(q geom.Point) float64 {
	pts := p.Sample(24)
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		if d := geom.SegmentDist(q, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}
