package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/MeKo-Tech/noisetex/internal/builder"
)

// Light is a directional light used to shade a layer from the slope of its
// noise map.
type Light struct {
	// Azimuth in degrees, counter-clockwise from +x (east).
	Azimuth float64
	// Elevation in degrees above the map plane.
	Elevation float64
	// Contrast sharpens (> 1) or softens (< 1) the shading.
	Contrast float64
	// Brightness scales the shading term.
	Brightness float64
	// Color tints the light. Its alpha is ignored.
	Color color.NRGBA
}

// DefaultLight is a white light from the north-west, 60 degrees up.
func DefaultLight() Light {
	return Light{
		Azimuth:    135,
		Elevation:  60,
		Contrast:   2,
		Brightness: 1,
		Color:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
	}
}

func (l Light) validate() error {
	for _, v := range []float64{l.Azimuth, l.Elevation, l.Contrast, l.Brightness} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: light parameters must be finite, got %+v", ErrConfig, l)
		}
	}
	if l.Contrast <= 0 {
		return fmt.Errorf("%w: light contrast must be positive, got %v", ErrConfig, l.Contrast)
	}
	if l.Brightness < 0 {
		return fmt.Errorf("%w: light brightness must not be negative, got %v", ErrConfig, l.Brightness)
	}
	return nil
}

// direction returns the unit vector pointing towards the light.
func (l Light) direction() (x, y, z float64) {
	const deg = math.Pi / 180
	sinAz, cosAz := math.Sincos(l.Azimuth * deg)
	sinEl, cosEl := math.Sincos(l.Elevation * deg)
	return cosEl * cosAz, cosEl * sinAz, sinEl
}

// shade returns the intensity for cell (x, y) of nm.
func (l Light) shade(nm *builder.NoiseMap, x, y int, lx, ly, lz float64) float64 {
	dx := slope(nm, x, y, 1, 0)
	// Rows grow downwards; the surface y axis points to the top row.
	dy := -slope(nm, x, y, 0, 1)

	nx, ny, nz := -dx, -dy, 1.0
	n := math.Sqrt(nx*nx + ny*ny + nz*nz)
	dot := (nx*lx + ny*ly + nz*lz) / n
	if dot <= 0 {
		return 0
	}
	return l.Brightness * math.Pow(dot, l.Contrast)
}

// slope is the finite difference of nm at (x, y) along (sx, sy), which is
// (1, 0) or (0, 1). Interior cells use central differences; edges fall back to
// one-sided differences unless the map is seamless, where the last column or
// row duplicates the first and neighbours wrap past it.
func slope(nm *builder.NoiseMap, x, y, sx, sy int) float64 {
	n := nm.Width
	i := x
	if sy != 0 {
		n = nm.Height
		i = y
	}
	if n < 2 {
		return 0
	}

	at := func(j int) float64 {
		if sy != 0 {
			return nm.At(x, j)
		}
		return nm.At(j, y)
	}

	prev, next := i-1, i+1
	if nm.Seamless && n > 2 {
		if prev < 0 {
			prev = n - 2
		}
		if next >= n {
			next = 1
		}
		return (at(next) - at(prev)) / 2
	}

	switch {
	case prev < 0:
		return at(next) - at(i)
	case next >= n:
		return at(i) - at(prev)
	default:
		return (at(next) - at(prev)) / 2
	}
}
