package module

import (
	"math"

	"github.com/MeKo-Tech/noisetex/internal/noise"
)

// Add outputs the sum of two sources.
type Add struct {
	a, b Module
}

// NewAdd creates an Add combinator.
func NewAdd(a, b Module) (*Add, error) {
	if err := requireSources("add", a, b); err != nil {
		return nil, err
	}
	return &Add{a: a, b: b}, nil
}

// Sources implements Module.
func (m *Add) Sources() []Module { return []Module{m.a, m.b} }

// Value implements Module.
func (m *Add) Value(x, y, z float64) float64 {
	return m.a.Value(x, y, z) + m.b.Value(x, y, z)
}

// ScaleBias applies v*scale + bias to its source.
type ScaleBias struct {
	src   Module
	scale float64
	bias  float64
}

// NewScaleBias creates a ScaleBias combinator.
func NewScaleBias(src Module, scale, bias float64) (*ScaleBias, error) {
	if err := requireSources("scalebias", src); err != nil {
		return nil, err
	}
	return &ScaleBias{src: src, scale: scale, bias: bias}, nil
}

// Scale returns the multiplier.
func (m *ScaleBias) Scale() float64 { return m.scale }

// Bias returns the additive term.
func (m *ScaleBias) Bias() float64 { return m.bias }

// Sources implements Module.
func (m *ScaleBias) Sources() []Module { return []Module{m.src} }

// Value implements Module.
func (m *ScaleBias) Value(x, y, z float64) float64 {
	return m.src.Value(x, y, z)*m.scale + m.bias
}

// SelectorParams configures a Selector.
type SelectorParams struct {
	LowerBound  float64
	UpperBound  float64
	EdgeFalloff float64
}

// Selector picks between two sources depending on the value of a control
// module. Control values inside [LowerBound, UpperBound] (inclusive) select
// the second source; everything else selects the first. A non-zero edge
// falloff blends the two sources across a band centered on each bound.
type Selector struct {
	source0 Module
	source1 Module
	control Module
	params  SelectorParams
}

// NewSelector creates a Selector. The edge falloff is clamped to half the
// bound range so the two transition bands never overlap.
func NewSelector(source0, source1, control Module, params SelectorParams) (*Selector, error) {
	if err := requireSources("selector", source0, source1, control); err != nil {
		return nil, err
	}
	if math.IsNaN(params.LowerBound) || math.IsNaN(params.UpperBound) {
		return nil, configErr("selector", "bounds must be numbers")
	}
	if params.LowerBound > params.UpperBound {
		return nil, configErr("selector", "lower bound %v exceeds upper bound %v", params.LowerBound, params.UpperBound)
	}
	if !(params.EdgeFalloff >= 0) {
		return nil, configErr("selector", "edge falloff must not be negative, got %v", params.EdgeFalloff)
	}

	half := (params.UpperBound - params.LowerBound) / 2
	if params.EdgeFalloff > half {
		params.EdgeFalloff = half
	}
	return &Selector{source0: source0, source1: source1, control: control, params: params}, nil
}

// Params returns the bounds and the effective (clamped) falloff.
func (m *Selector) Params() SelectorParams { return m.params }

// Sources implements Module. The order is source0, source1, control.
func (m *Selector) Sources() []Module { return []Module{m.source0, m.source1, m.control} }

// Value implements Module.
func (m *Selector) Value(x, y, z float64) float64 {
	c := m.control.Value(x, y, z)
	lower, upper, falloff := m.params.LowerBound, m.params.UpperBound, m.params.EdgeFalloff

	if falloff <= 0 {
		if c < lower || c > upper {
			return m.source0.Value(x, y, z)
		}
		return m.source1.Value(x, y, z)
	}

	switch {
	case c < lower-falloff:
		return m.source0.Value(x, y, z)
	case c < lower+falloff:
		a := sCurve3((c - (lower - falloff)) / (2 * falloff))
		return lerp(m.source0.Value(x, y, z), m.source1.Value(x, y, z), a)
	case c < upper-falloff:
		return m.source1.Value(x, y, z)
	case c < upper+falloff:
		a := sCurve3((c - (upper - falloff)) / (2 * falloff))
		return lerp(m.source1.Value(x, y, z), m.source0.Value(x, y, z), a)
	default:
		return m.source0.Value(x, y, z)
	}
}

// TurbulenceParams configures a Turbulence combinator.
type TurbulenceParams struct {
	Frequency  float64
	Power      float64
	Roughness  int
	SeedOffset int
}

// DefaultTurbulence returns the classic libnoise defaults.
func DefaultTurbulence() TurbulenceParams {
	return TurbulenceParams{Frequency: 1.0, Power: 1.0, Roughness: 3}
}

// Turbulence displaces the input point with three independent noise fields
// before evaluating its source.
type Turbulence struct {
	src    Module
	params TurbulenceParams
	dx     *Perlin
	dy     *Perlin
	dz     *Perlin
}

// NewTurbulence creates a Turbulence combinator driven by the given noise source.
func NewTurbulence(n *noise.Source, src Module, params TurbulenceParams) (*Turbulence, error) {
	if err := requireSources("turbulence", src); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, configErr("turbulence", "noise source is nil")
	}
	if params.Roughness < 1 {
		return nil, configErr("turbulence", "roughness must be at least 1, got %d", params.Roughness)
	}
	if math.IsNaN(params.Power) || math.IsInf(params.Power, 0) {
		return nil, configErr("turbulence", "power must be finite, got %v", params.Power)
	}

	field := Fractal{
		Frequency:   params.Frequency,
		Lacunarity:  2.0,
		Persistence: 0.5,
		OctaveCount: params.Roughness,
		SeedOffset:  params.SeedOffset,
	}
	if err := field.validate("turbulence"); err != nil {
		return nil, err
	}

	m := &Turbulence{src: src, params: params}
	var err error
	if m.dx, err = newPerlin(n, field, 1); err != nil {
		return nil, err
	}
	if m.dy, err = newPerlin(n, field, 2); err != nil {
		return nil, err
	}
	if m.dz, err = newPerlin(n, field, 3); err != nil {
		return nil, err
	}
	return m, nil
}

// Params returns the turbulence parameters.
func (m *Turbulence) Params() TurbulenceParams { return m.params }

// Sources implements Module. The displacement fields are internal.
func (m *Turbulence) Sources() []Module { return []Module{m.src} }

// Value implements Module.
func (m *Turbulence) Value(x, y, z float64) float64 {
	// Fixed fractional shifts keep the three fields from sampling the same
	// lattice alignment.
	x0, y0, z0 := x+(12414.0/65536.0), y+(65124.0/65536.0), z+(31337.0/65536.0)
	x1, y1, z1 := x+(26519.0/65536.0), y+(18128.0/65536.0), z+(60493.0/65536.0)
	x2, y2, z2 := x+(53820.0/65536.0), y+(11213.0/65536.0), z+(44845.0/65536.0)

	xd := x + m.dx.Value(x0, y0, z0)*m.params.Power
	yd := y + m.dy.Value(x1, y1, z1)*m.params.Power
	zd := z + m.dz.Value(x2, y2, z2)*m.params.Power
	return m.src.Value(xd, yd, zd)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// sCurve3 is the cubic smoothstep 3t^2 - 2t^3.
func sCurve3(t float64) float64 { return t * t * (3 - 2*t) }
