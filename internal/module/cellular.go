package module

import (
	"math"

	"github.com/MeKo-Tech/noisetex/internal/noise"
)

// VoronoiParams configures a Voronoi generator.
type VoronoiParams struct {
	Frequency       float64
	Displacement    float64
	DistanceApplied bool
	SeedOffset      int
}

// DefaultVoronoi returns the classic libnoise defaults.
func DefaultVoronoi() VoronoiParams {
	return VoronoiParams{Frequency: 1.0, Displacement: 1.0}
}

// Voronoi partitions space into cells around jittered lattice points. Each
// cell gets a constant value; optionally the distance to the cell center is
// added, producing pits at the centers.
type Voronoi struct {
	src    *noise.Source
	params VoronoiParams
}

// NewVoronoi creates a Voronoi generator.
func NewVoronoi(src *noise.Source, params VoronoiParams) (*Voronoi, error) {
	if src == nil {
		return nil, configErr("voronoi", "noise source is nil")
	}
	if !positive(params.Frequency) {
		return nil, configErr("voronoi", "frequency must be positive, got %v", params.Frequency)
	}
	if math.IsNaN(params.Displacement) || math.IsInf(params.Displacement, 0) {
		return nil, configErr("voronoi", "displacement must be finite, got %v", params.Displacement)
	}
	return &Voronoi{src: src, params: params}, nil
}

// Params returns the generator parameters.
func (m *Voronoi) Params() VoronoiParams { return m.params }

// Sources implements Module.
func (m *Voronoi) Sources() []Module { return nil }

// Value implements Module.
func (m *Voronoi) Value(x, y, z float64) float64 {
	p := m.params
	x, y, z = x*p.Frequency, y*p.Frequency, z*p.Frequency

	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	zi := int(math.Floor(z))
	off := p.SeedOffset * 3

	minDist := math.MaxFloat64
	var cx, cy, cz float64
	for iz := zi - 2; iz <= zi+2; iz++ {
		for iy := yi - 2; iy <= yi+2; iy++ {
			for ix := xi - 2; ix <= xi+2; ix++ {
				px := float64(ix) + m.src.Lattice(ix, iy, iz, off)
				py := float64(iy) + m.src.Lattice(ix, iy, iz, off+1)
				pz := float64(iz) + m.src.Lattice(ix, iy, iz, off+2)

				dx, dy, dz := px-x, py-y, pz-z
				if d := dx*dx + dy*dy + dz*dz; d < minDist {
					minDist = d
					cx, cy, cz = px, py, pz
				}
			}
		}
	}

	value := 0.0
	if p.DistanceApplied {
		value = math.Sqrt(minDist)*math.Sqrt(3) - 1.0
	}

	cell := m.src.Lattice(int(math.Floor(cx)), int(math.Floor(cy)), int(math.Floor(cz)), off)
	return value + p.Displacement*cell
}

// Cylinder produces concentric bands around the y axis. It uses no noise.
type Cylinder struct {
	frequency float64
}

// NewCylinder creates a Cylinder generator.
func NewCylinder(frequency float64) (*Cylinder, error) {
	if !positive(frequency) {
		return nil, configErr("cylinder", "frequency must be positive, got %v", frequency)
	}
	return &Cylinder{frequency: frequency}, nil
}

// Frequency returns the number of bands per unit of radius.
func (m *Cylinder) Frequency() float64 { return m.frequency }

// Sources implements Module.
func (m *Cylinder) Sources() []Module { return nil }

// Value implements Module.
func (m *Cylinder) Value(x, _, z float64) float64 {
	r := math.Sqrt(x*x + z*z)
	return math.Cos(2 * math.Pi * m.frequency * r)
}
