package scene

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/module"
)

// Surface is the shape a scene is rendered onto.
type Surface string

const (
	SurfacePlane    Surface = "plane"
	SurfaceSeamless Surface = "seamless"
	SurfaceSphere   Surface = "sphere"
)

// AllSurfaces lists every surface in render order.
var AllSurfaces = []Surface{SurfacePlane, SurfaceSeamless, SurfaceSphere}

// ParseSurfaces validates surface names. An empty list selects all surfaces.
func ParseSurfaces(names []string) ([]Surface, error) {
	if len(names) == 0 {
		return AllSurfaces, nil
	}

	out := make([]Surface, 0, len(names))
	seen := make(map[Surface]bool)
	for _, name := range names {
		s := Surface(strings.ToLower(strings.TrimSpace(name)))
		switch s {
		case SurfacePlane, SurfaceSeamless, SurfaceSphere:
		default:
			return nil, fmt.Errorf("unknown surface %q (want plane, seamless or sphere)", name)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// Size returns the image size for an output height. Sphere maps are twice as
// wide as they are high; plane maps are square.
func (s Surface) Size(height int) (width, h int) {
	if s == SurfaceSphere {
		return 2 * height, height
	}
	return height, height
}

// Suffix is the file name suffix for the surface, e.g. "Seamless".
func (s Surface) Suffix() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Builder maps m onto the surface: [-1, 1]² for planes and the whole globe
// for spheres.
func (s Surface) Builder(m module.Module, seed int64) (builder.Builder, error) {
	switch s {
	case SurfacePlane, SurfaceSeamless:
		return builder.NewPlane(m, builder.PlaneConfig{
			LowerX: -1, UpperX: 1,
			LowerZ: -1, UpperZ: 1,
			Seamless: s == SurfaceSeamless,
			Seed:     seed,
		})
	case SurfaceSphere:
		return builder.NewSphere(m, builder.FullSphere(seed))
	default:
		return nil, fmt.Errorf("unknown surface %q", s)
	}
}
