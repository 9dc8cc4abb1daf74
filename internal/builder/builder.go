// Package builder samples a module graph over a surface (a bounded plane or a
// unit sphere) to produce a NoiseMap.
package builder

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/paulmach/orb"
)

// ErrConfig is wrapped by every builder configuration error. It is the same
// sentinel as module.ErrConfig.
var ErrConfig = module.ErrConfig

// Kind names a builder surface.
type Kind string

const (
	KindPlane  Kind = "plane"
	KindSphere Kind = "sphere"
)

// Builder maps output grid cells to points on a surface and evaluates the
// module graph there.
type Builder interface {
	// Value returns the noise value for cell (col, row) of a width x height grid.
	Value(col, row, width, height int) float64
	// Module returns the graph being sampled.
	Module() module.Module
	// Kind reports the surface kind.
	Kind() Kind
	// Bounds returns the sampled region. For planes the first axis is X and the
	// second Z; for spheres the first axis is longitude and the second latitude.
	Bounds() orb.Bound
	// Seamless reports whether opposite edges of the output match.
	Seamless() bool
	// Seed returns the seed recorded with the builder.
	Seed() int64
}

// NoiseMap is a dense row-major grid of noise values.
type NoiseMap struct {
	Values   []float64
	Width    int
	Height   int
	Seamless bool
}

// NewNoiseMap allocates a zeroed map.
func NewNoiseMap(width, height int, seamless bool) *NoiseMap {
	return &NoiseMap{
		Values:   make([]float64, width*height),
		Width:    width,
		Height:   height,
		Seamless: seamless,
	}
}

// At returns the value at (x, y).
func (m *NoiseMap) At(x, y int) float64 { return m.Values[y*m.Width+x] }

// Set stores the value at (x, y).
func (m *NoiseMap) Set(x, y int, v float64) { m.Values[y*m.Width+x] = v }

// Row returns the slice backing row y.
func (m *NoiseMap) Row(y int) []float64 { return m.Values[y*m.Width : (y+1)*m.Width] }

// FillRow evaluates b for every cell of row y.
func (m *NoiseMap) FillRow(b Builder, y int) {
	row := m.Row(y)
	for x := range row {
		row[x] = b.Value(x, y, m.Width, m.Height)
	}
}

// Build samples b over a width x height grid on the calling goroutine.
// mapgen.Generator does the same work in parallel.
func Build(b Builder, width, height int) (*NoiseMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("map size must be positive, got %dx%d", width, height)
	}
	m := NewNoiseMap(width, height, b.Seamless())
	for y := 0; y < height; y++ {
		m.FillRow(b, y)
	}
	return m, nil
}

// span maps index i of n onto [lower, upper] with both ends included.
// A single sample maps to lower.
func span(lower, upper float64, i, n int) float64 {
	if n <= 1 {
		return lower
	}
	return lower + (upper-lower)*float64(i)/float64(n-1)
}

// spanDown is span running from upper at i = 0 to lower at i = n-1, for rows
// that read top down. A single sample still maps to lower.
func spanDown(lower, upper float64, i, n int) float64 {
	if n <= 1 {
		return lower
	}
	return upper - (upper-lower)*float64(i)/float64(n-1)
}

// latitudes holds every valid (longitude, latitude) corner of a sphere.
var latitudes = orb.Bound{
	Min: orb.Point{-math.MaxFloat64, -90},
	Max: orb.Point{math.MaxFloat64, 90},
}

// newBound validates the extent from lower to upper. xAxis and yAxis name the
// two coordinates in errors.
func newBound(xAxis, yAxis string, lower, upper orb.Point) (orb.Bound, error) {
	for _, c := range [...]float64{lower[0], lower[1], upper[0], upper[1]} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return orb.Bound{}, fmt.Errorf("%w: %s/%s bounds must be finite", ErrConfig, xAxis, yAxis)
		}
	}

	b := orb.Bound{Min: lower, Max: upper}
	if b.IsEmpty() {
		axis, lo, hi := yAxis, b.Bottom(), b.Top()
		if b.Left() > b.Right() {
			axis, lo, hi = xAxis, b.Left(), b.Right()
		}
		return orb.Bound{}, fmt.Errorf("%w: %s lower bound %v exceeds upper bound %v", ErrConfig, axis, lo, hi)
	}
	return b, nil
}

func checkModule(m module.Module) error {
	if m == nil {
		return fmt.Errorf("%w: module is nil", ErrConfig)
	}
	return module.Validate(m)
}
