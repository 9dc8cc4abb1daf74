package graphio

import (
	"fmt"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/render"
)

// Describe captures src, the graphs under every layer of r and the layers
// themselves. src must be the source the generators were built with.
func Describe(src *noise.Source, r render.Renderer) (*File, error) {
	if src == nil || r == nil {
		return nil, fmt.Errorf("describe needs a noise source and a renderer")
	}
	layers := r.Layers()

	roots := make([]module.Module, len(layers))
	for i, l := range layers {
		roots[i] = l.Builder().Module()
	}

	f := &File{
		Version: Version,
		Noise:   NoiseSpec{Seed: src.Seed(), Algorithm: string(src.Algorithm())},
	}

	index := make(map[module.Module]int)
	err := module.Walk(roots, func(m module.Module) error {
		node, err := describeModule(m)
		if err != nil {
			return err
		}
		for _, s := range m.Sources() {
			node.Sources = append(node.Sources, index[s])
		}
		index[m] = len(f.Modules)
		f.Modules = append(f.Modules, node)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe module graph: %w", err)
	}

	for i, l := range layers {
		spec, err := describeLayer(l, index)
		if err != nil {
			return nil, fmt.Errorf("failed to describe layer %d: %w", i, err)
		}
		f.Layers = append(f.Layers, spec)
	}

	return f, nil
}

func describeModule(m module.Module) (Node, error) {
	switch m := m.(type) {
	case *module.Perlin:
		return Node{Kind: KindPerlin, Fractal: fractalSpec(m.Params())}, nil
	case *module.Billow:
		return Node{Kind: KindBillow, Fractal: fractalSpec(m.Params())}, nil
	case *module.RidgedMulti:
		return Node{Kind: KindRidged, Fractal: fractalSpec(m.Params())}, nil
	case *module.Voronoi:
		p := m.Params()
		return Node{Kind: KindVoronoi, Voronoi: &VoronoiSpec{
			Frequency:    p.Frequency,
			Displacement: p.Displacement,
			Distance:     p.DistanceApplied,
			SeedOffset:   p.SeedOffset,
		}}, nil
	case *module.Cylinder:
		return Node{Kind: KindCylinder, Frequency: m.Frequency()}, nil
	case *module.Add:
		return Node{Kind: KindAdd}, nil
	case *module.ScaleBias:
		return Node{Kind: KindScaleBias, ScaleBias: &ScaleBiasSpec{Scale: m.Scale(), Bias: m.Bias()}}, nil
	case *module.Selector:
		p := m.Params()
		return Node{Kind: KindSelector, Selector: &SelectorSpec{
			LowerBound:  p.LowerBound,
			UpperBound:  p.UpperBound,
			EdgeFalloff: p.EdgeFalloff,
		}}, nil
	case *module.Turbulence:
		p := m.Params()
		return Node{Kind: KindTurbulence, Turbulence: &TurbulenceSpec{
			Frequency:  p.Frequency,
			Power:      p.Power,
			Roughness:  p.Roughness,
			SeedOffset: p.SeedOffset,
		}}, nil
	case *module.TranslatePoint:
		return Node{Kind: KindTranslate, Vector: vector(m.Offset())}, nil
	case *module.ScalePoint:
		return Node{Kind: KindScale, Vector: vector(m.Scale())}, nil
	case *module.RotatePoint:
		return Node{Kind: KindRotate, Vector: vector(m.Angles())}, nil
	default:
		return Node{}, fmt.Errorf("unsupported module type %T", m)
	}
}

func describeLayer(l *render.Layer, index map[module.Module]int) (LayerSpec, error) {
	b := l.Builder()
	bounds := b.Bounds()

	spec := LayerSpec{
		Builder: BuilderSpec{
			Kind:     string(b.Kind()),
			Module:   index[b.Module()],
			Min:      [2]float64{bounds.Min[0], bounds.Min[1]},
			Max:      [2]float64{bounds.Max[0], bounds.Max[1]},
			Seamless: b.Seamless(),
			Seed:     b.Seed(),
		},
	}
	if k := b.Kind(); k != builder.KindPlane && k != builder.KindSphere {
		return LayerSpec{}, fmt.Errorf("unsupported builder kind %q", k)
	}

	for _, p := range l.Gradient().Points() {
		spec.Gradient = append(spec.Gradient, StopSpec{Position: p.Position, Color: FormatColor(p.Color)})
	}

	if light := l.Light(); light != nil {
		spec.Light = &LightSpec{
			Azimuth:    light.Azimuth,
			Elevation:  light.Elevation,
			Contrast:   light.Contrast,
			Brightness: light.Brightness,
			Color:      FormatColor(light.Color),
		}
	}
	return spec, nil
}

func fractalSpec(p module.Fractal) *FractalSpec {
	return &FractalSpec{
		Frequency:   p.Frequency,
		Lacunarity:  p.Lacunarity,
		Persistence: p.Persistence,
		Octaves:     p.OctaveCount,
		SeedOffset:  p.SeedOffset,
	}
}

func vector(v module.Vec3) []float64 { return []float64{v.X, v.Y, v.Z} }
