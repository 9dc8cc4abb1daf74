package builder

import (
	"fmt"
	"math"

	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/paulmach/orb"
)

// SphereConfig bounds a sphere builder in degrees.
type SphereConfig struct {
	LowerLat, UpperLat float64
	LowerLon, UpperLon float64
	Seed               int64
}

// FullSphere covers the whole globe.
func FullSphere(seed int64) SphereConfig {
	return SphereConfig{LowerLat: -90, UpperLat: 90, LowerLon: -180, UpperLon: 180, Seed: seed}
}

// Sphere samples a module over a latitude/longitude rectangle of the unit sphere.
type Sphere struct {
	mod    module.Module
	bounds orb.Bound
	seed   int64
}

// NewSphere validates cfg and creates a sphere builder.
func NewSphere(m module.Module, cfg SphereConfig) (*Sphere, error) {
	if err := checkModule(m); err != nil {
		return nil, err
	}
	bounds, err := newBound("longitude", "latitude", orb.Point{cfg.LowerLon, cfg.LowerLat}, orb.Point{cfg.UpperLon, cfg.UpperLat})
	if err != nil {
		return nil, err
	}
	if !latitudes.Contains(bounds.Min) || !latitudes.Contains(bounds.Max) {
		return nil, fmt.Errorf("%w: latitude must be within [-90, 90], got [%v, %v]", ErrConfig, cfg.LowerLat, cfg.UpperLat)
	}

	return &Sphere{
		mod:    m,
		bounds: bounds,
		seed:   cfg.Seed,
	}, nil
}

func (s *Sphere) Module() module.Module { return s.mod }
func (s *Sphere) Kind() Kind { return KindSphere }
func (s *Sphere) Bounds() orb.Bound { return s.bounds }
func (s *Sphere) Seamless() bool { return false }
func (s *Sphere) Seed() int64 { return s.seed }

// LatLon returns the coordinates of a cell in degrees. Row 0 is the upper
// latitude (north up); a single row samples the lower latitude.
func (s *Sphere) LatLon(col, row, width, height int) (lat, lon float64) {
	lon = span(s.bounds.Left(), s.bounds.Right(), col, width)
	lat = spanDown(s.bounds.Bottom(), s.bounds.Top(), row, height)
	return lat, lon
}

// Value implements Builder.
func (s *Sphere) Value(col, row, width, height int) float64 {
	lat, lon := s.LatLon(col, row, width, height)
	x, y, z := ToCartesian(lat, lon)
	return s.mod.Value(x, y, z)
}

// ToCartesian converts latitude/longitude in degrees to a point on the unit
// sphere with +y through the north pole.
func ToCartesian(lat, lon float64) (x, y, z float64) {
	const deg = math.Pi / 180
	sinLat, cosLat := math.Sincos(lat * deg)
	sinLon, cosLon := math.Sincos(lon * deg)
	return cosLat * cosLon, sinLat, cosLat * sinLon
}
