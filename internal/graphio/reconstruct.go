package graphio

import (
	"fmt"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/render"
)

// Reconstruct rebuilds the noise source, the module arena and the renderer.
// Layers are stacked bottom to top. Every module is built once, so a node
// referenced by several parents comes back as a single shared instance.
func (f *File) Reconstruct() (*noise.Source, render.Renderer, error) {
	if f.Version != Version {
		return nil, nil, fmt.Errorf("%w: unsupported description version %d", module.ErrConfig, f.Version)
	}
	if len(f.Layers) == 0 {
		return nil, nil, fmt.Errorf("%w: description has no layers", module.ErrConfig)
	}

	algo, err := noise.ParseAlgorithm(f.Noise.Algorithm)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", module.ErrConfig, err)
	}
	src, err := noise.New(f.Noise.Seed, algo)
	if err != nil {
		return nil, nil, err
	}

	arena := make([]module.Module, len(f.Modules))
	for i, node := range f.Modules {
		m, err := buildNode(src, node, i, arena)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to rebuild module %d (%s): %w", i, node.Kind, err)
		}
		arena[i] = m
	}

	var out render.Renderer
	for i, spec := range f.Layers {
		layer, err := buildLayer(spec, arena)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to rebuild layer %d: %w", i, err)
		}
		if out == nil {
			out = layer
			continue
		}
		if out, err = render.NewBlend(out, layer); err != nil {
			return nil, nil, err
		}
	}

	return src, out, nil
}

func buildNode(src *noise.Source, node Node, self int, arena []module.Module) (module.Module, error) {
	sources := make([]module.Module, len(node.Sources))
	for i, ref := range node.Sources {
		if ref < 0 || ref >= self {
			return nil, fmt.Errorf("%w: source index %d must refer to an earlier module", module.ErrConfig, ref)
		}
		sources[i] = arena[ref]
	}

	want := map[string]int{
		KindAdd: 2, KindScaleBias: 1, KindSelector: 3, KindTurbulence: 1,
		KindTranslate: 1, KindScale: 1, KindRotate: 1,
	}[node.Kind]
	if len(sources) != want {
		return nil, fmt.Errorf("%w: %s takes %d sources, got %d", module.ErrConfig, node.Kind, want, len(sources))
	}

	switch node.Kind {
	case KindPerlin, KindBillow, KindRidged:
		if node.Fractal == nil {
			return nil, missing("fractal")
		}
		p := module.Fractal{
			Frequency:   node.Fractal.Frequency,
			Lacunarity:  node.Fractal.Lacunarity,
			Persistence: node.Fractal.Persistence,
			OctaveCount: node.Fractal.Octaves,
			SeedOffset:  node.Fractal.SeedOffset,
		}
		switch node.Kind {
		case KindPerlin:
			return module.NewPerlin(src, p)
		case KindBillow:
			return module.NewBillow(src, p)
		default:
			return module.NewRidgedMulti(src, p)
		}
	case KindVoronoi:
		if node.Voronoi == nil {
			return nil, missing("voronoi")
		}
		return module.NewVoronoi(src, module.VoronoiParams{
			Frequency:       node.Voronoi.Frequency,
			Displacement:    node.Voronoi.Displacement,
			DistanceApplied: node.Voronoi.Distance,
			SeedOffset:      node.Voronoi.SeedOffset,
		})
	case KindCylinder:
		return module.NewCylinder(node.Frequency)
	case KindAdd:
		return module.NewAdd(sources[0], sources[1])
	case KindScaleBias:
		if node.ScaleBias == nil {
			return nil, missing("scale_bias")
		}
		return module.NewScaleBias(sources[0], node.ScaleBias.Scale, node.ScaleBias.Bias)
	case KindSelector:
		if node.Selector == nil {
			return nil, missing("selector")
		}
		return module.NewSelector(sources[0], sources[1], sources[2], module.SelectorParams{
			LowerBound:  node.Selector.LowerBound,
			UpperBound:  node.Selector.UpperBound,
			EdgeFalloff: node.Selector.EdgeFalloff,
		})
	case KindTurbulence:
		if node.Turbulence == nil {
			return nil, missing("turbulence")
		}
		return module.NewTurbulence(src, sources[0], module.TurbulenceParams{
			Frequency:  node.Turbulence.Frequency,
			Power:      node.Turbulence.Power,
			Roughness:  node.Turbulence.Roughness,
			SeedOffset: node.Turbulence.SeedOffset,
		})
	case KindTranslate, KindScale, KindRotate:
		if len(node.Vector) != 3 {
			return nil, fmt.Errorf("%w: %s needs a 3 element vector, got %d", module.ErrConfig, node.Kind, len(node.Vector))
		}
		v := module.Vec3{X: node.Vector[0], Y: node.Vector[1], Z: node.Vector[2]}
		switch node.Kind {
		case KindTranslate:
			return module.NewTranslatePoint(sources[0], v)
		case KindScale:
			return module.NewScalePoint(sources[0], v)
		default:
			return module.NewRotatePoint(sources[0], v)
		}
	default:
		return nil, fmt.Errorf("%w: unknown module kind %q", module.ErrConfig, node.Kind)
	}
}

func buildLayer(spec LayerSpec, arena []module.Module) (*render.Layer, error) {
	bs := spec.Builder
	if bs.Module < 0 || bs.Module >= len(arena) {
		return nil, fmt.Errorf("%w: builder module index %d out of range", module.ErrConfig, bs.Module)
	}
	root := arena[bs.Module]

	var (
		b   builder.Builder
		err error
	)
	switch builder.Kind(bs.Kind) {
	case builder.KindPlane:
		b, err = builder.NewPlane(root, builder.PlaneConfig{
			LowerX: bs.Min[0], UpperX: bs.Max[0],
			LowerZ: bs.Min[1], UpperZ: bs.Max[1],
			Seamless: bs.Seamless,
			Seed:     bs.Seed,
		})
	case builder.KindSphere:
		b, err = builder.NewSphere(root, builder.SphereConfig{
			LowerLon: bs.Min[0], UpperLon: bs.Max[0],
			LowerLat: bs.Min[1], UpperLat: bs.Max[1],
			Seed: bs.Seed,
		})
	default:
		return nil, fmt.Errorf("%w: unknown builder kind %q", module.ErrConfig, bs.Kind)
	}
	if err != nil {
		return nil, err
	}

	points := make([]render.GradientPoint, 0, len(spec.Gradient))
	for _, stop := range spec.Gradient {
		c, err := ParseColor(stop.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", module.ErrConfig, err)
		}
		points = append(points, render.GradientPoint{Position: stop.Position, Color: c})
	}
	g, err := render.NewGradient(points...)
	if err != nil {
		return nil, err
	}

	var light *render.Light
	if spec.Light != nil {
		c, err := ParseColor(spec.Light.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", module.ErrConfig, err)
		}
		light = &render.Light{
			Azimuth:    spec.Light.Azimuth,
			Elevation:  spec.Light.Elevation,
			Contrast:   spec.Light.Contrast,
			Brightness: spec.Light.Brightness,
			Color:      c,
		}
	}

	return render.NewLayer(b, g, light)
}

func missing(block string) error {
	return fmt.Errorf("%w: missing %s parameters", module.ErrConfig, block)
}
