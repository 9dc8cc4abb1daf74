// Package noise provides the seeded coherent-noise source that every
// generator module in a graph draws from.
package noise

import (
	"fmt"
	"math"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Algorithm selects the coherent-noise function behind a Source.
type Algorithm string

const (
	// Perlin is classic 3D gradient noise.
	Perlin Algorithm = "perlin"
	// Simplex is OpenSimplex 3D noise.
	Simplex Algorithm = "simplex"
)

// ParseAlgorithm maps a user supplied name to an Algorithm.
// An empty name selects Perlin.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case "", Perlin:
		return Perlin, nil
	case Simplex:
		return Simplex, nil
	default:
		return "", fmt.Errorf("unknown noise algorithm %q (want perlin or simplex)", name)
	}
}

// Source is a seeded, deterministic coherent-noise function of 3D points.
// It holds no mutable state after construction and is safe for concurrent use.
type Source struct {
	eval func(x, y, z float64) float64
	algo Algorithm
	seed int64
}

// New creates a Source for the given seed and algorithm.
func New(seed int64, algo Algorithm) (*Source, error) {
	algo, err := ParseAlgorithm(string(algo))
	if err != nil {
		return nil, err
	}

	s := &Source{seed: seed, algo: algo}
	switch algo {
	case Simplex:
		s.eval = opensimplex.New(seed).Eval3
	default:
		// A single octave: generators do their own fractal summing.
		p := perlin.NewPerlin(2.0, 2.0, 1, seed)
		s.eval = func(x, y, z float64) float64 {
			return p.Noise3D(fold(x), fold(y), fold(z))
		}
	}
	return s, nil
}

// perlinPeriod is the lattice period of go-perlin's permutation table.
const perlinPeriod = 256

// fold maps v into [0, perlinPeriod). go-perlin repeats every period, but
// Noise3D falls back to 2D noise for negative z and truncates toward zero
// below -4096, so points are evaluated inside the first period.
func fold(v float64) float64 {
	v = math.Mod(v, perlinPeriod)
	if v < 0 {
		v += perlinPeriod
	}
	return v
}

// Seed returns the seed the source was built with.
func (s *Source) Seed() int64 { return s.seed }

// Algorithm returns the noise algorithm in use.
func (s *Source) Algorithm() Algorithm { return s.algo }

// Sample evaluates coherent noise at (x, y, z). Values are roughly in [-1, 1].
// Distinct offsets yield decorrelated fields from the same source: the point is
// translated by a displacement derived from the seed and offset.
func (s *Source) Sample(x, y, z float64, offset int) float64 {
	dx, dy, dz := s.shift(offset)
	return s.eval(x+dx, y+dy, z+dz)
}

// Lattice returns a pseudo-random value in [-1, 1] for an integer lattice
// point. It is the cell hash used by cellular generators.
func (s *Source) Lattice(ix, iy, iz, offset int) float64 {
	seed := int32(s.seed + int64(offset))
	n := (1619*int32(ix) + 31337*int32(iy) + 6971*int32(iz) + 1013*seed) & 0x7fffffff
	n = (n >> 13) ^ n
	n = (n*(n*n*60493+19990303) + 1376312589) & 0x7fffffff
	return 1.0 - float64(n)/1073741824.0
}

// shift derives a fractional displacement in [0, 256) per axis so that
// different offsets never land on the same lattice alignment.
func (s *Source) shift(offset int) (float64, float64, float64) {
	h := mix64(uint64(s.seed) ^ (uint64(int64(offset)) * 0x9e3779b97f4a7c15))
	const mask = 1<<20 - 1
	return float64(h&mask) / 4096.0,
		float64((h>>20)&mask) / 4096.0,
		float64((h>>40)&mask) / 4096.0
}

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
