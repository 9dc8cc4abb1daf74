// Package scene holds the built-in texture recipes: a module graph, palette
// and lighting per layer, renderable onto any Surface.
package scene

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/render"
)

// Scene is a named texture recipe.
type Scene struct {
	Name    string
	Summary string
	layers  func(src *noise.Source) ([]layer, error)
}

// layer is one surface-independent render layer.
type layer struct {
	mod      module.Module
	gradient *render.Gradient
	light    *render.Light
}

// FileName returns the image base name, e.g. "TextureGraniteSphere".
func (s Scene) FileName(surface Surface) string {
	return "Texture" + strings.ToUpper(s.Name[:1]) + s.Name[1:] + surface.Suffix()
}

// Renderer builds the scene graph on src and maps every layer onto surface.
// Layers are stacked bottom to top.
func (s Scene) Renderer(src *noise.Source, surface Surface) (render.Renderer, error) {
	layers, err := s.layers(src)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s graph: %w", s.Name, err)
	}

	var out render.Renderer
	for i, l := range layers {
		b, err := surface.Builder(l.mod, src.Seed())
		if err != nil {
			return nil, fmt.Errorf("failed to build %s layer %d: %w", s.Name, i, err)
		}
		rl, err := render.NewLayer(b, l.gradient, l.light)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s layer %d: %w", s.Name, i, err)
		}
		if out == nil {
			out = rl
			continue
		}
		if out, err = render.NewBlend(out, rl); err != nil {
			return nil, err
		}
	}
	if out == nil {
		return nil, fmt.Errorf("scene %s has no layers", s.Name)
	}
	return out, nil
}

var catalogue = map[string]Scene{
	"granite": {Name: "granite", Summary: "grainy billow rock with voronoi flecks, lit", layers: granite},
	"jade":    {Name: "jade", Summary: "ridged veins over rotated cylinders", layers: jade},
	"sky":     {Name: "sky", Summary: "voronoi water waves under billow clouds", layers: sky},
	"slime":   {Name: "slime", Summary: "large and small billow bubbles selected by a ridged map, lit", layers: slime},
	"wood":    {Name: "wood", Summary: "turbulent cylinder rings with perlin grain", layers: wood},
}

// Names returns the scene names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scene with the given name.
func Lookup(name string) (Scene, error) {
	s, ok := catalogue[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Scene{}, fmt.Errorf("unknown scene %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Select resolves names to scenes. An empty list selects every scene.
func Select(names []string) ([]Scene, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]Scene, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		s, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if !seen[s.Name] {
			seen[s.Name] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// graph chains module constructors and keeps the first error; once it is set
// every further call is a no-op returning nil.
type graph struct {
	src *noise.Source
	err error
}

func (g *graph) keep(m module.Module, err error) module.Module {
	if err != nil {
		g.err = err
		return nil
	}
	return m
}

func (g *graph) perlin(p module.Fractal) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewPerlin(g.src, p))
}

func (g *graph) billow(p module.Fractal) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewBillow(g.src, p))
}

func (g *graph) ridged(p module.Fractal) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewRidgedMulti(g.src, p))
}

func (g *graph) voronoi(p module.VoronoiParams) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewVoronoi(g.src, p))
}

func (g *graph) cylinder(freq float64) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewCylinder(freq))
}

func (g *graph) add(a, b module.Module) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewAdd(a, b))
}

func (g *graph) scaleBias(src module.Module, scale, bias float64) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewScaleBias(src, scale, bias))
}

func (g *graph) selector(a, b, control module.Module, p module.SelectorParams) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewSelector(a, b, control, p))
}

func (g *graph) turbulence(src module.Module, p module.TurbulenceParams) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewTurbulence(g.src, src, p))
}

func (g *graph) translate(src module.Module, v module.Vec3) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewTranslatePoint(src, v))
}

func (g *graph) scale(src module.Module, v module.Vec3) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewScalePoint(src, v))
}

func (g *graph) rotate(src module.Module, v module.Vec3) module.Module {
	if g.err != nil {
		return nil
	}
	return g.keep(module.NewRotatePoint(src, v))
}

// fractal returns the default fractal parameters with the given overrides.
func fractal(seedOffset int, freq, lacunarity, persistence float64, octaves int) module.Fractal {
	return module.Fractal{
		Frequency:   freq,
		Lacunarity:  lacunarity,
		Persistence: persistence,
		OctaveCount: octaves,
		SeedOffset:  seedOffset,
	}
}

func rgba(r, g, b, a uint8) color.NRGBA { return color.NRGBA{R: r, G: g, B: b, A: a} }

func stop(pos float64, c color.NRGBA) render.GradientPoint {
	return render.GradientPoint{Position: pos, Color: c}
}

// whiteLight is the shading shared by the lit scenes.
func whiteLight() *render.Light {
	l := render.DefaultLight()
	return &l
}
