package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{name: "empty defaults to perlin", input: "", want: Perlin},
		{name: "perlin", input: "perlin", want: Perlin},
		{name: "simplex mixed case", input: " Simplex ", want: Simplex},
		{name: "unknown", input: "worley", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourceDeterministic(t *testing.T) {
	for _, algo := range []Algorithm{Perlin, Simplex} {
		t.Run(string(algo), func(t *testing.T) {
			a, err := New(42, algo)
			require.NoError(t, err)
			b, err := New(42, algo)
			require.NoError(t, err)

			for i := 0; i < 50; i++ {
				x, y, z := float64(i)*0.37, float64(i)*-0.21, float64(i)*0.13
				assert.Equal(t, a.Sample(x, y, z, 3), b.Sample(x, y, z, 3))
				assert.Equal(t, a.Sample(x, y, z, 3), a.Sample(x, y, z, 3))
			}
		})
	}
}

func TestSourceRangeAndContinuity(t *testing.T) {
	for _, algo := range []Algorithm{Perlin, Simplex} {
		t.Run(string(algo), func(t *testing.T) {
			src, err := New(7, algo)
			require.NoError(t, err)

			prev := src.Sample(0, 0.5, 0.25, 0)
			for i := 1; i <= 1000; i++ {
				x := float64(i) * 0.001
				v := src.Sample(x, 0.5, 0.25, 0)
				assert.False(t, math.IsNaN(v))
				assert.LessOrEqual(t, math.Abs(v), 1.5, "value out of range at x=%v", x)
				assert.Less(t, math.Abs(v-prev), 0.05, "noise should vary smoothly")
				prev = v
			}
		})
	}
}

func TestSourceContinuousAcrossNegativeCoordinates(t *testing.T) {
	for _, algo := range []Algorithm{Perlin, Simplex} {
		t.Run(string(algo), func(t *testing.T) {
			src, err := New(0, algo)
			require.NoError(t, err)

			// Walk z through zero, every shift and the fold at the period edge.
			const step = 0.01
			prev := src.Sample(0.37, 0.11, -600, 0)
			for z := -600 + step; z <= 600; z += step {
				v := src.Sample(0.37, 0.11, z, 0)
				require.Less(t, math.Abs(v-prev), 0.1, "jump at z=%v", z)
				prev = v
			}

			// Far negative x and y too.
			prev = src.Sample(-5000, -5000, -5000, 1)
			for i := 1; i <= 2000; i++ {
				d := float64(i) * step
				v := src.Sample(-5000+d, -5000+d, -5000+d, 1)
				require.Less(t, math.Abs(v-prev), 0.1, "jump at %v", -5000+d)
				prev = v
			}
		})
	}
}

func TestSourceDependsOnNegativeZ(t *testing.T) {
	src, err := New(0, Perlin)
	require.NoError(t, err)

	a := src.Sample(0.37, 0.11, -44.3, 0)
	b := src.Sample(0.37, 0.11, -50.0, 0)
	c := src.Sample(0.37, 0.11, -167.7, 0)
	assert.False(t, a == b && b == c, "z is ignored for negative points")
}

func TestFold(t *testing.T) {
	assert.Equal(t, 0.0, fold(0))
	assert.Equal(t, 0.0, fold(256))
	assert.Equal(t, 255.5, fold(-0.5))
	assert.InDelta(t, 10.25, fold(-501.75), 1e-9)
	assert.InDelta(t, 44.0, fold(300), 1e-9)
}

func TestSourceOffsetsDecorrelate(t *testing.T) {
	src, err := New(0, Perlin)
	require.NoError(t, err)

	different := 0
	for i := 0; i < 100; i++ {
		x, y, z := float64(i)*0.173, float64(i)*0.071, float64(i)*0.029
		if src.Sample(x, y, z, 0) != src.Sample(x, y, z, 1) {
			different++
		}
	}
	assert.Greater(t, different, 90)
}

func TestSourceSeedsDiffer(t *testing.T) {
	a, err := New(1, Simplex)
	require.NoError(t, err)
	b, err := New(2, Simplex)
	require.NoError(t, err)

	different := 0
	for i := 0; i < 100; i++ {
		x := float64(i) * 0.31
		if a.Sample(x, x, x, 0) != b.Sample(x, x, x, 0) {
			different++
		}
	}
	assert.Greater(t, different, 90)
}

func TestLatticeRange(t *testing.T) {
	src, err := New(3, Perlin)
	require.NoError(t, err)

	seen := map[float64]bool{}
	for ix := -5; ix <= 5; ix++ {
		for iy := -5; iy <= 5; iy++ {
			v := src.Lattice(ix, iy, ix-iy, 0)
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
			assert.Equal(t, v, src.Lattice(ix, iy, ix-iy, 0))
			seen[v] = true
		}
	}
	assert.Greater(t, len(seen), 100, "lattice values should be well spread")
	assert.NotEqual(t, src.Lattice(1, 2, 3, 0), src.Lattice(1, 2, 3, 1))
}

func TestSourceAccessors(t *testing.T) {
	src, err := New(99, "")
	require.NoError(t, err)
	assert.Equal(t, int64(99), src.Seed())
	assert.Equal(t, Perlin, src.Algorithm())

	_, err = New(1, "cellular")
	require.Error(t, err)
}
