package scene

import (
	"github.com/MeKo-Tech/noisetex/internal/module"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/render"
)

func granite(src *noise.Source) ([]layer, error) {
	g := &graph{src: src}

	// Billow gives the rough surface, voronoi cells the small grains. Cells
	// normally form pits, so they are inverted into bumps.
	primary := g.billow(fractal(0, 8, 2.18359375, 0.625, 6))
	grains := g.voronoi(module.VoronoiParams{Frequency: 16, Displacement: 1, DistanceApplied: true, SeedOffset: 1})
	scaledGrains := g.scaleBias(grains, -0.5, 0)
	combined := g.add(primary, scaledGrains)
	final := g.turbulence(combined, module.TurbulenceParams{Frequency: 4, Power: 1.0 / 8, Roughness: 6, SeedOffset: 2})
	if g.err != nil {
		return nil, g.err
	}

	// Black and pink at the ends give the flecks.
	grad, err := render.NewGradient(
		stop(-1.0000, rgba(0, 0, 0, 255)),
		stop(-0.9375, rgba(0, 0, 0, 255)),
		stop(-0.8750, rgba(216, 216, 242, 255)),
		stop(0.0000, rgba(191, 191, 191, 255)),
		stop(0.5000, rgba(210, 116, 125, 255)),
		stop(0.7500, rgba(210, 113, 98, 255)),
		stop(1.0000, rgba(255, 176, 192, 255)),
	)
	if err != nil {
		return nil, err
	}
	return []layer{{mod: final, gradient: grad, light: whiteLight()}}, nil
}

func jade(src *noise.Source) ([]layer, error) {
	g := &graph{src: src}

	// Ridges form the veins.
	primary := g.ridged(fractal(0, 2, 2.20703125, 0.5, 6))

	// Concentric cylinders, tilted off every axis and slightly perturbed.
	base := g.cylinder(2)
	rotated := g.rotate(base, module.Vec3{X: 90, Y: 25, Z: 5})
	perturbed := g.turbulence(rotated, module.TurbulenceParams{Frequency: 4, Power: 1.0 / 4, Roughness: 4, SeedOffset: 1})
	secondary := g.scaleBias(perturbed, 0.25, 0)

	combined := g.add(primary, secondary)
	// Low roughness keeps the veins smooth.
	final := g.turbulence(combined, module.TurbulenceParams{Frequency: 4, Power: 1.0 / 16, Roughness: 2, SeedOffset: 2})
	if g.err != nil {
		return nil, g.err
	}

	grad, err := render.NewGradient(
		stop(-1.000, rgba(24, 146, 102, 255)),
		stop(0.000, rgba(78, 154, 115, 255)),
		stop(0.250, rgba(128, 204, 165, 255)),
		stop(0.375, rgba(78, 154, 115, 255)),
		stop(1.000, rgba(29, 135, 102, 255)),
	)
	if err != nil {
		return nil, err
	}
	return []layer{{mod: final, gradient: grad}}, nil
}

func sky(src *noise.Source) ([]layer, error) {
	g := &graph{src: src}

	// Water: voronoi distance rises from cell centres to edges, which reads as
	// waves once stretched along z.
	water := g.voronoi(module.VoronoiParams{Frequency: 8, Displacement: 0, DistanceApplied: true, SeedOffset: 0})
	stretched := g.scale(water, module.Vec3{X: 1, Y: 1, Z: 3})
	finalWater := g.turbulence(stretched, module.TurbulenceParams{Frequency: 8, Power: 1.0 / 32, Roughness: 1, SeedOffset: 1})

	// Clouds.
	clouds := g.billow(fractal(2, 2, 2.12109375, 0.375, 4))
	finalClouds := g.turbulence(clouds, module.TurbulenceParams{Frequency: 16, Power: 1.0 / 64, Roughness: 2, SeedOffset: 3})
	if g.err != nil {
		return nil, g.err
	}

	waterGrad, err := render.NewGradient(
		stop(-1.00, rgba(48, 64, 192, 255)),
		stop(0.50, rgba(96, 192, 255, 255)),
		stop(1.00, rgba(255, 255, 255, 255)),
	)
	if err != nil {
		return nil, err
	}
	// White throughout; alpha lets the water show through thin cloud.
	cloudGrad, err := render.NewGradient(
		stop(-1.00, rgba(255, 255, 255, 0)),
		stop(-0.50, rgba(255, 255, 255, 0)),
		stop(1.00, rgba(255, 255, 255, 255)),
	)
	if err != nil {
		return nil, err
	}

	return []layer{
		{mod: finalWater, gradient: waterGrad, light: whiteLight()},
		{mod: finalClouds, gradient: cloudGrad},
	}, nil
}

func slime(src *noise.Source) ([]layer, error) {
	g := &graph{src: src}

	large := g.billow(fractal(0, 4, 2.12109375, 0.5, 1))
	smallBase := g.billow(fractal(1, 24, 2.14453125, 0.5, 1))
	small := g.scaleBias(smallBase, 0.5, -0.5)

	// Small bubbles fill the narrow band of the ridged map, large ones the rest.
	slimeMap := g.ridged(fractal(0, 2, 2.20703125, 0.5, 3))
	chooser := g.selector(large, small, slimeMap, module.SelectorParams{LowerBound: -0.375, UpperBound: 0.375, EdgeFalloff: 0.5})
	final := g.turbulence(chooser, module.TurbulenceParams{Frequency: 8, Power: 1.0 / 32, Roughness: 2, SeedOffset: 2})
	if g.err != nil {
		return nil, g.err
	}

	// Dirt brown for the lowest values, green for the rest.
	grad, err := render.NewGradient(
		stop(-1.0000, rgba(160, 64, 42, 255)),
		stop(0.0000, rgba(64, 192, 64, 255)),
		stop(1.0000, rgba(128, 255, 128, 255)),
	)
	if err != nil {
		return nil, err
	}
	return []layer{{mod: final, gradient: grad, light: whiteLight()}}, nil
}

func wood(src *noise.Source) ([]layer, error) {
	g := &graph{src: src}

	// Rings of a log aligned on the y axis.
	rings := g.cylinder(16)

	// Grain stretched along the log.
	grainNoise := g.perlin(fractal(0, 48, 2.20703125, 0.5, 3))
	stretchedGrain := g.scale(grainNoise, module.Vec3{X: 1, Y: 0.25, Z: 1})
	grain := g.scaleBias(stretchedGrain, 0.25, 0.125)

	combined := g.add(rings, grain)
	perturbed := g.turbulence(combined, module.TurbulenceParams{Frequency: 4, Power: 1.0 / 256, Roughness: 4, SeedOffset: 1})

	// Cut the log off-centre and at an angle.
	translated := g.translate(perturbed, module.Vec3{Z: 1.48})
	rotated := g.rotate(translated, module.Vec3{X: 84})
	final := g.turbulence(rotated, module.TurbulenceParams{Frequency: 2, Power: 1.0 / 64, Roughness: 4, SeedOffset: 2})
	if g.err != nil {
		return nil, g.err
	}

	grad, err := render.NewGradient(
		stop(-1.00, rgba(189, 94, 4, 255)),
		stop(0.50, rgba(144, 48, 6, 255)),
		stop(1.00, rgba(60, 10, 8, 255)),
	)
	if err != nil {
		return nil, err
	}
	return []layer{{mod: final, gradient: grad}}, nil
}
