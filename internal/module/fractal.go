package module

import (
	"math"

	"github.com/MeKo-Tech/noisetex/internal/noise"
)

// Fractal holds the octave parameters shared by the fractal generators.
type Fractal struct {
	Frequency   float64
	Lacunarity  float64
	Persistence float64
	OctaveCount int
	SeedOffset  int
}

// DefaultFractal returns the classic libnoise defaults.
func DefaultFractal() Fractal {
	return Fractal{
		Frequency:   1.0,
		Lacunarity:  2.0,
		Persistence: 0.5,
		OctaveCount: 6,
	}
}

func (f Fractal) validate(kind string) error {
	if !positive(f.Frequency) {
		return configErr(kind, "frequency must be positive, got %v", f.Frequency)
	}
	if math.IsNaN(f.Lacunarity) || math.IsInf(f.Lacunarity, 0) {
		return configErr(kind, "lacunarity must be finite, got %v", f.Lacunarity)
	}
	if math.IsNaN(f.Persistence) || math.IsInf(f.Persistence, 0) {
		return configErr(kind, "persistence must be finite, got %v", f.Persistence)
	}
	if f.OctaveCount > MaxOctaves {
		return configErr(kind, "octave count %d exceeds %d", f.OctaveCount, MaxOctaves)
	}
	return nil
}

// Offsets passed to the noise source are split into lanes so that a
// turbulence node's three displacement fields never share an offset with a
// plain generator, and every octave gets its own field.
const lanes = 4

func sampleOffset(seedOffset, lane, octave int) int {
	return (seedOffset*lanes+lane)*MaxOctaves + octave
}

// Perlin sums octaves of signed coherent noise.
type Perlin struct {
	src    *noise.Source
	params Fractal
	lane   int
}

// NewPerlin creates a Perlin generator.
func NewPerlin(src *noise.Source, params Fractal) (*Perlin, error) {
	return newPerlin(src, params, 0)
}

func newPerlin(src *noise.Source, params Fractal, lane int) (*Perlin, error) {
	if src == nil {
		return nil, configErr("perlin", "noise source is nil")
	}
	if err := params.validate("perlin"); err != nil {
		return nil, err
	}
	return &Perlin{src: src, params: params, lane: lane}, nil
}

// Params returns the generator parameters.
func (m *Perlin) Params() Fractal { return m.params }

// Sources implements Module.
func (m *Perlin) Sources() []Module { return nil }

// Value implements Module.
func (m *Perlin) Value(x, y, z float64) float64 {
	p := m.params
	x, y, z = x*p.Frequency, y*p.Frequency, z*p.Frequency

	value := 0.0
	amplitude := 1.0
	for i := 0; i < p.OctaveCount; i++ {
		value += m.src.Sample(x, y, z, sampleOffset(p.SeedOffset, m.lane, i)) * amplitude

		x, y, z = x*p.Lacunarity, y*p.Lacunarity, z*p.Lacunarity
		amplitude *= p.Persistence
	}
	return value
}

// Billow sums octaves of folded noise, producing rounded, puffy shapes.
type Billow struct {
	src    *noise.Source
	params Fractal
}

// NewBillow creates a Billow generator.
func NewBillow(src *noise.Source, params Fractal) (*Billow, error) {
	if src == nil {
		return nil, configErr("billow", "noise source is nil")
	}
	if err := params.validate("billow"); err != nil {
		return nil, err
	}
	return &Billow{src: src, params: params}, nil
}

// Params returns the generator parameters.
func (m *Billow) Params() Fractal { return m.params }

// Sources implements Module.
func (m *Billow) Sources() []Module { return nil }

// Value implements Module.
func (m *Billow) Value(x, y, z float64) float64 {
	p := m.params
	if p.OctaveCount <= 0 {
		return 0
	}
	x, y, z = x*p.Frequency, y*p.Frequency, z*p.Frequency

	value := 0.0
	amplitude := 1.0
	for i := 0; i < p.OctaveCount; i++ {
		signal := m.src.Sample(x, y, z, sampleOffset(p.SeedOffset, 0, i))
		value += (2.0*math.Abs(signal) - 1.0) * amplitude

		x, y, z = x*p.Lacunarity, y*p.Lacunarity, z*p.Lacunarity
		amplitude *= p.Persistence
	}
	// Folded octaves skew negative; re-center the sum.
	return value + 0.5
}

// RidgedMulti builds sharp ridges by inverting the magnitude of each octave
// and weighting it by the previous octave. Persistence is ignored.
type RidgedMulti struct {
	src     *noise.Source
	params  Fractal
	weights []float64
}

// NewRidgedMulti creates a ridged-multifractal generator.
func NewRidgedMulti(src *noise.Source, params Fractal) (*RidgedMulti, error) {
	if src == nil {
		return nil, configErr("ridged", "noise source is nil")
	}
	if err := params.validate("ridged"); err != nil {
		return nil, err
	}

	n := max(params.OctaveCount, 0)
	weights := make([]float64, n)
	freq := 1.0
	for i := range weights {
		weights[i] = 1.0 / freq
		freq *= params.Lacunarity
	}
	return &RidgedMulti{src: src, params: params, weights: weights}, nil
}

// Params returns the generator parameters.
func (m *RidgedMulti) Params() Fractal { return m.params }

// Sources implements Module.
func (m *RidgedMulti) Sources() []Module { return nil }

// Value implements Module.
func (m *RidgedMulti) Value(x, y, z float64) float64 {
	const (
		offset = 1.0
		gain   = 2.0
	)

	p := m.params
	if p.OctaveCount <= 0 {
		return 0
	}
	x, y, z = x*p.Frequency, y*p.Frequency, z*p.Frequency

	value := 0.0
	weight := 1.0
	for i := 0; i < p.OctaveCount; i++ {
		signal := offset - math.Abs(m.src.Sample(x, y, z, sampleOffset(p.SeedOffset, 0, i)))
		signal *= signal
		signal *= weight

		weight = signal * gain
		if weight > 1 {
			weight = 1
		}
		if weight < 0 {
			weight = 0
		}

		value += signal * m.weights[i]
		x, y, z = x*p.Lacunarity, y*p.Lacunarity, z*p.Lacunarity
	}
	return value*1.25 - 1.0
}
