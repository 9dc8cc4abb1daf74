package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// GradientPoint is a color stop at a noise value.
type GradientPoint struct {
	Position float64
	Color    color.NRGBA
}

// Gradient maps noise values to colors by interpolating between sorted stops.
type Gradient struct {
	points []GradientPoint
}

// NewGradient sorts the stops by position. It needs at least two stops with
// distinct, finite positions.
func NewGradient(points ...GradientPoint) (*Gradient, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: gradient needs at least 2 points, got %d", ErrConfig, len(points))
	}

	sorted := make([]GradientPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	for i, p := range sorted {
		if math.IsNaN(p.Position) || math.IsInf(p.Position, 0) {
			return nil, fmt.Errorf("%w: gradient position must be finite, got %v", ErrConfig, p.Position)
		}
		if i > 0 && sorted[i-1].Position == p.Position {
			return nil, fmt.Errorf("%w: duplicate gradient position %v", ErrConfig, p.Position)
		}
	}

	return &Gradient{points: sorted}, nil
}

// Points returns a copy of the stops in ascending order.
func (g *Gradient) Points() []GradientPoint {
	out := make([]GradientPoint, len(g.points))
	copy(out, g.points)
	return out
}

// Color returns the interpolated color for v. Values outside the stop range
// clamp to the end colors; NaN maps to the first stop.
func (g *Gradient) Color(v float64) color.NRGBA {
	first, last := g.points[0], g.points[len(g.points)-1]
	if math.IsNaN(v) || v <= first.Position {
		return first.Color
	}
	if v >= last.Position {
		return last.Color
	}

	i := sort.Search(len(g.points), func(i int) bool { return g.points[i].Position > v })
	lo, hi := g.points[i-1], g.points[i]
	t := (v - lo.Position) / (hi.Position - lo.Position)

	return color.NRGBA{
		R: lerpChannel(lo.Color.R, hi.Color.R, t),
		G: lerpChannel(lo.Color.G, hi.Color.G, t),
		B: lerpChannel(lo.Color.B, hi.Color.B, t),
		A: lerpChannel(lo.Color.A, hi.Color.A, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return clampUint8(float64(a) + (float64(b)-float64(a))*t)
}

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
