package module

import (
	"errors"
	"math"
	"testing"

	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSource(t *testing.T) *noise.Source {
	t.Helper()
	src, err := noise.New(0, noise.Perlin)
	require.NoError(t, err)
	return src
}

// constModule returns a fixed value everywhere.
type constModule struct{ v float64 }

func (c *constModule) Value(_, _, _ float64) float64 { return c.v }
func (c *constModule) Sources() []Module { return nil }

// axisModule returns one coordinate of the input point.
type axisModule struct{ axis int }

func (a *axisModule) Value(x, y, z float64) float64 { return [3]float64{x, y, z}[a.axis] }
func (a *axisModule) Sources() []Module { return nil }

// linkModule has mutable sources so tests can build a cycle.
type linkModule struct{ next []Module }

func (l *linkModule) Value(_, _, _ float64) float64 { return 0 }
func (l *linkModule) Sources() []Module { return l.next }

var samplePoints = [][3]float64{
	{0, 0, 0}, {0.5, -0.25, 0.75}, {-1.3, 2.2, 0.1}, {10.01, -3.7, 4.4}, {0.333, 0.666, 0.999},
}

func generators(t *testing.T) map[string]Module {
	t.Helper()
	src := newSource(t)

	perlin, err := NewPerlin(src, DefaultFractal())
	require.NoError(t, err)
	billow, err := NewBillow(src, DefaultFractal())
	require.NoError(t, err)
	ridged, err := NewRidgedMulti(src, DefaultFractal())
	require.NoError(t, err)
	vp := DefaultVoronoi()
	vp.DistanceApplied = true
	voronoi, err := NewVoronoi(src, vp)
	require.NoError(t, err)
	cylinder, err := NewCylinder(2)
	require.NoError(t, err)
	turb, err := NewTurbulence(src, perlin, DefaultTurbulence())
	require.NoError(t, err)

	return map[string]Module{
		"perlin":     perlin,
		"billow":     billow,
		"ridged":     ridged,
		"voronoi":    voronoi,
		"cylinder":   cylinder,
		"turbulence": turb,
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	first := generators(t)
	second := generators(t)

	for name, m := range first {
		t.Run(name, func(t *testing.T) {
			for _, p := range samplePoints {
				v := m.Value(p[0], p[1], p[2])
				assert.False(t, math.IsNaN(v))
				assert.Equal(t, v, m.Value(p[0], p[1], p[2]), "repeat evaluation")
				assert.Equal(t, v, second[name].Value(p[0], p[1], p[2]), "fresh graph")
			}
		})
	}
}

func TestZeroOctavesIsConstantZero(t *testing.T) {
	src := newSource(t)
	params := DefaultFractal()
	params.OctaveCount = 0

	perlin, err := NewPerlin(src, params)
	require.NoError(t, err)
	billow, err := NewBillow(src, params)
	require.NoError(t, err)
	ridged, err := NewRidgedMulti(src, params)
	require.NoError(t, err)

	for _, m := range []Module{perlin, billow, ridged} {
		for _, p := range samplePoints {
			assert.Equal(t, 0.0, m.Value(p[0], p[1], p[2]))
		}
	}
}

func TestConstructorErrors(t *testing.T) {
	src := newSource(t)
	leaf := &constModule{v: 1}

	badFreq := DefaultFractal()
	badFreq.Frequency = 0
	tooMany := DefaultFractal()
	tooMany.OctaveCount = MaxOctaves + 1
	nanFreq := DefaultFractal()
	nanFreq.Frequency = math.NaN()

	tests := []struct {
		name string
		make func() error
	}{
		{"perlin zero frequency", func() error { _, err := NewPerlin(src, badFreq); return err }},
		{"perlin NaN frequency", func() error { _, err := NewPerlin(src, nanFreq); return err }},
		{"perlin nil source", func() error { _, err := NewPerlin(nil, DefaultFractal()); return err }},
		{"billow too many octaves", func() error { _, err := NewBillow(src, tooMany); return err }},
		{"ridged zero frequency", func() error { _, err := NewRidgedMulti(src, badFreq); return err }},
		{"voronoi zero frequency", func() error {
			_, err := NewVoronoi(src, VoronoiParams{Frequency: 0})
			return err
		}},
		{"cylinder negative frequency", func() error { _, err := NewCylinder(-1); return err }},
		{"add nil", func() error { _, err := NewAdd(leaf, nil); return err }},
		{"scalebias nil", func() error { _, err := NewScaleBias(nil, 1, 0); return err }},
		{"turbulence zero roughness", func() error {
			_, err := NewTurbulence(src, leaf, TurbulenceParams{Frequency: 1, Power: 1, Roughness: 0})
			return err
		}},
		{"turbulence zero frequency", func() error {
			_, err := NewTurbulence(src, leaf, TurbulenceParams{Frequency: 0, Power: 1, Roughness: 2})
			return err
		}},
		{"selector inverted bounds", func() error {
			_, err := NewSelector(leaf, leaf, leaf, SelectorParams{LowerBound: 1, UpperBound: -1})
			return err
		}},
		{"selector negative falloff", func() error {
			_, err := NewSelector(leaf, leaf, leaf, SelectorParams{LowerBound: -1, UpperBound: 1, EdgeFalloff: -0.1})
			return err
		}},
		{"rotate NaN", func() error { _, err := NewRotatePoint(leaf, Vec3{X: math.NaN()}); return err }},
		{"translate nil", func() error { _, err := NewTranslatePoint(nil, Vec3{}); return err }},
		{"scale inf", func() error { _, err := NewScalePoint(leaf, Vec3{Y: math.Inf(1)}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.make()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfig), "error should wrap ErrConfig: %v", err)
		})
	}
}

func TestTurbulenceErrorsNameTurbulence(t *testing.T) {
	src := newSource(t)
	leaf := &constModule{v: 1}

	tests := []struct {
		name   string
		src    *noise.Source
		params TurbulenceParams
	}{
		{"zero frequency", src, TurbulenceParams{Frequency: 0, Power: 1, Roughness: 2}},
		{"nil noise source", nil, DefaultTurbulence()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTurbulence(tt.src, leaf, tt.params)
			require.ErrorIs(t, err, ErrConfig)
			assert.Contains(t, err.Error(), "turbulence:")
			assert.NotContains(t, err.Error(), "perlin")
		})
	}
}

func TestScaleBias(t *testing.T) {
	src := newSource(t)
	child, err := NewPerlin(src, DefaultFractal())
	require.NoError(t, err)

	for _, sb := range [][2]float64{{1, 0}, {-0.5, 0}, {0.25, 0.125}, {3, -2}, {0, 0.7}} {
		m, err := NewScaleBias(child, sb[0], sb[1])
		require.NoError(t, err)
		for _, p := range samplePoints {
			want := child.Value(p[0], p[1], p[2])*sb[0] + sb[1]
			assert.Equal(t, want, m.Value(p[0], p[1], p[2]))
		}
	}
}

func TestAdd(t *testing.T) {
	a := &constModule{v: 0.25}
	b := &axisModule{axis: 0}
	m, err := NewAdd(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1.25, m.Value(1, 5, 5))
	assert.Len(t, m.Sources(), 2)
}

func TestSelectorHardSwitch(t *testing.T) {
	low := &constModule{v: -1}
	high := &constModule{v: 1}
	control := &axisModule{axis: 0}

	m, err := NewSelector(low, high, control, SelectorParams{LowerBound: -0.5, UpperBound: 0.5})
	require.NoError(t, err)

	tests := []struct {
		c    float64
		want float64
	}{
		{-0.6, -1},
		{-0.5, 1}, // bounds are inclusive
		{0, 1},
		{0.5, 1},
		{0.5000001, -1},
		{2, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Value(tt.c, 0, 0), "control=%v", tt.c)
	}
}

func TestSelectorFalloffContinuous(t *testing.T) {
	low := &constModule{v: -1}
	high := &constModule{v: 1}
	control := &axisModule{axis: 0}

	m, err := NewSelector(low, high, control, SelectorParams{LowerBound: -0.375, UpperBound: 0.375, EdgeFalloff: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.375, m.Params().EdgeFalloff, "falloff clamps to half the bound range")

	const step = 1e-4
	prev := m.Value(-2, 0, 0)
	for c := -2 + step; c <= 2; c += step {
		v := m.Value(c, 0, 0)
		assert.LessOrEqual(t, math.Abs(v-prev), 0.01, "jump at control=%v", c)
		prev = v
	}
	assert.Equal(t, -1.0, m.Value(-2, 0, 0))
	assert.Equal(t, -1.0, m.Value(2, 0, 0))
	assert.InDelta(t, 1.0, m.Value(0, 0, 0), 1e-9)
}

func TestCylinder(t *testing.T) {
	m, err := NewCylinder(2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Value(0, 7, 0), 1e-12)
	assert.InDelta(t, -1.0, m.Value(0.25, 0, 0), 1e-12)
	assert.InDelta(t, m.Value(0.3, 0, 0.4), m.Value(0.5, -9, 0), 1e-12, "depends only on radius")
}

func TestPointTransforms(t *testing.T) {
	x := &axisModule{axis: 0}
	y := &axisModule{axis: 1}
	z := &axisModule{axis: 2}

	tr, err := NewTranslatePoint(z, Vec3{Z: 1.48})
	require.NoError(t, err)
	assert.InDelta(t, 1.98, tr.Value(0, 0, 0.5), 1e-12)

	sc, err := NewScalePoint(y, Vec3{X: 1, Y: 0.25, Z: 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sc.Value(9, 4, 9), 1e-12)

	ident, err := NewRotatePoint(x, Vec3{})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, ident.Value(0.3, 0.2, 0.1), 1e-12)

	// A rotation preserves distance from the origin.
	px, _ := NewRotatePoint(x, Vec3{X: 90, Y: 25, Z: 5})
	py, _ := NewRotatePoint(y, Vec3{X: 90, Y: 25, Z: 5})
	pz, _ := NewRotatePoint(z, Vec3{X: 90, Y: 25, Z: 5})
	for _, p := range samplePoints {
		rx, ry, rz := px.Value(p[0], p[1], p[2]), py.Value(p[0], p[1], p[2]), pz.Value(p[0], p[1], p[2])
		assert.InDelta(t, math.Sqrt(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]), math.Sqrt(rx*rx+ry*ry+rz*rz), 1e-9)
	}
}

func TestWalkVisitsSharedNodeOnce(t *testing.T) {
	shared := &constModule{v: 1}
	a, err := NewScaleBias(shared, 2, 0)
	require.NoError(t, err)
	b, err := NewScaleBias(shared, -1, 0)
	require.NoError(t, err)
	root, err := NewAdd(a, b)
	require.NoError(t, err)

	var order []Module
	require.NoError(t, Walk([]Module{root}, func(m Module) error {
		order = append(order, m)
		return nil
	}))

	require.Len(t, order, 4)
	assert.Same(t, shared, order[0], "children come first")
	assert.Same(t, root, order[3], "root comes last")

	n, err := Count(root, a)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestWalkRejectsCycle(t *testing.T) {
	a := &linkModule{}
	b := &linkModule{next: []Module{a}}
	a.next = []Module{b}

	err := Validate(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))

	self := &linkModule{}
	self.next = []Module{self}
	require.Error(t, Validate(self))
}

func TestWalkPropagatesVisitError(t *testing.T) {
	boom := errors.New("boom")
	err := Walk([]Module{&constModule{}}, func(Module) error { return boom })
	assert.ErrorIs(t, err, boom)
}
