package builder

import (
	"fmt"

	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/paulmach/orb"
)

// PlaneConfig bounds a plane builder on the x/z plane (y = 0).
type PlaneConfig struct {
	LowerX, UpperX float64
	LowerZ, UpperZ float64
	Seamless       bool
	Seed           int64
}

// Plane samples a module over an axis aligned rectangle.
type Plane struct {
	mod      module.Module
	bounds   orb.Bound
	seamless bool
	seed     int64
}

// NewPlane validates cfg and creates a plane builder.
func NewPlane(m module.Module, cfg PlaneConfig) (*Plane, error) {
	if err := checkModule(m); err != nil {
		return nil, err
	}
	bounds, err := newBound("x", "z", orb.Point{cfg.LowerX, cfg.LowerZ}, orb.Point{cfg.UpperX, cfg.UpperZ})
	if err != nil {
		return nil, err
	}
	if cfg.Seamless && (bounds.Left() == bounds.Right() || bounds.Bottom() == bounds.Top()) {
		return nil, fmt.Errorf("%w: seamless plane needs a non-empty extent on both axes", ErrConfig)
	}

	return &Plane{
		mod:      m,
		bounds:   bounds,
		seamless: cfg.Seamless,
		seed:     cfg.Seed,
	}, nil
}

func (p *Plane) Module() module.Module { return p.mod }
func (p *Plane) Kind() Kind { return KindPlane }
func (p *Plane) Bounds() orb.Bound { return p.bounds }
func (p *Plane) Seamless() bool { return p.seamless }
func (p *Plane) Seed() int64 { return p.seed }

// Point returns the sample point for a cell. Row 0 is the upper z bound so the
// output image reads like a map with +z up; a single row samples the lower z.
func (p *Plane) Point(col, row, width, height int) (x, z float64) {
	x = span(p.bounds.Left(), p.bounds.Right(), col, width)
	z = spanDown(p.bounds.Bottom(), p.bounds.Top(), row, height)
	return x, z
}

// Value implements Builder.
func (p *Plane) Value(col, row, width, height int) float64 {
	x, z := p.Point(col, row, width, height)
	if !p.seamless {
		return p.mod.Value(x, 0, z)
	}

	// Blend the point with its copies one extent over, weighting by distance
	// from the lower edges. At x = lower the weight sits entirely on the
	// shifted copy, which is the same point as x = upper, so opposite edges
	// agree.
	lowerX, lowerZ := p.bounds.Left(), p.bounds.Bottom()
	dx := p.bounds.Right() - lowerX
	dz := p.bounds.Top() - lowerZ

	sw := p.mod.Value(x, 0, z)
	se := p.mod.Value(x+dx, 0, z)
	nw := p.mod.Value(x, 0, z+dz)
	ne := p.mod.Value(x+dx, 0, z+dz)

	xBlend := 1.0 - (x-lowerX)/dx
	zBlend := 1.0 - (z-lowerZ)/dz

	z0 := lerp(sw, se, xBlend)
	z1 := lerp(nw, ne, xBlend)
	return lerp(z0, z1, zBlend)
}

func lerp(a, b, t float64) float64 { return (1-t)*a + t*b }
