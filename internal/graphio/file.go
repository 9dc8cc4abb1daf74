// Package graphio describes a noise source, module graph and renderer as a
// flat file and rebuilds them from it.
//
// Modules are stored in an arena in post-order: every node appears once, after
// all of its sources, and refers to them by index. Sharing in the graph is
// therefore preserved and a cycle cannot be expressed.
package graphio

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Version is the description format version written by Describe.
const Version = 1

// File is a complete texture description.
type File struct {
	Version int         `yaml:"version" toml:"version"`
	Noise   NoiseSpec   `yaml:"noise" toml:"noise"`
	Modules []Node      `yaml:"modules" toml:"modules"`
	Layers  []LayerSpec `yaml:"layers" toml:"layers"`
}

// NoiseSpec describes the shared noise source.
type NoiseSpec struct {
	Seed      int64  `yaml:"seed" toml:"seed"`
	Algorithm string `yaml:"algorithm" toml:"algorithm"`
}

// Node is one module of the arena. Exactly one parameter block is set,
// matching Kind; Cylinder uses Frequency and point transforms use Vector.
type Node struct {
	Kind    string `yaml:"kind" toml:"kind"`
	Sources []int  `yaml:"sources,omitempty,flow" toml:"sources,omitempty"`

	Fractal    *FractalSpec    `yaml:"fractal,omitempty" toml:"fractal,omitempty"`
	Voronoi    *VoronoiSpec    `yaml:"voronoi,omitempty" toml:"voronoi,omitempty"`
	Turbulence *TurbulenceSpec `yaml:"turbulence,omitempty" toml:"turbulence,omitempty"`
	Selector   *SelectorSpec   `yaml:"selector,omitempty" toml:"selector,omitempty"`
	ScaleBias  *ScaleBiasSpec  `yaml:"scale_bias,omitempty" toml:"scale_bias,omitempty"`
	Frequency  float64         `yaml:"frequency,omitempty" toml:"frequency,omitempty"`
	Vector     []float64       `yaml:"vector,omitempty,flow" toml:"vector,omitempty"`
}

// Node kinds.
const (
	KindPerlin     = "perlin"
	KindBillow     = "billow"
	KindRidged     = "ridged_multi"
	KindVoronoi    = "voronoi"
	KindCylinder   = "cylinder"
	KindAdd        = "add"
	KindScaleBias  = "scale_bias"
	KindSelector   = "selector"
	KindTurbulence = "turbulence"
	KindTranslate  = "translate_point"
	KindScale      = "scale_point"
	KindRotate     = "rotate_point"
)

type FractalSpec struct {
	Frequency   float64 `yaml:"frequency" toml:"frequency"`
	Lacunarity  float64 `yaml:"lacunarity" toml:"lacunarity"`
	Persistence float64 `yaml:"persistence" toml:"persistence"`
	Octaves     int     `yaml:"octaves" toml:"octaves"`
	SeedOffset  int     `yaml:"seed_offset" toml:"seed_offset"`
}

type VoronoiSpec struct {
	Frequency    float64 `yaml:"frequency" toml:"frequency"`
	Displacement float64 `yaml:"displacement" toml:"displacement"`
	Distance     bool    `yaml:"distance" toml:"distance"`
	SeedOffset   int     `yaml:"seed_offset" toml:"seed_offset"`
}

type TurbulenceSpec struct {
	Frequency  float64 `yaml:"frequency" toml:"frequency"`
	Power      float64 `yaml:"power" toml:"power"`
	Roughness  int     `yaml:"roughness" toml:"roughness"`
	SeedOffset int     `yaml:"seed_offset" toml:"seed_offset"`
}

type SelectorSpec struct {
	LowerBound  float64 `yaml:"lower_bound" toml:"lower_bound"`
	UpperBound  float64 `yaml:"upper_bound" toml:"upper_bound"`
	EdgeFalloff float64 `yaml:"edge_falloff" toml:"edge_falloff"`
}

type ScaleBiasSpec struct {
	Scale float64 `yaml:"scale" toml:"scale"`
	Bias  float64 `yaml:"bias" toml:"bias"`
}

// LayerSpec describes one render layer, bottom layer first.
type LayerSpec struct {
	Builder  BuilderSpec `yaml:"builder" toml:"builder"`
	Gradient []StopSpec  `yaml:"gradient" toml:"gradient"`
	Light    *LightSpec  `yaml:"light,omitempty" toml:"light,omitempty"`
}

// BuilderSpec describes a surface. Min and Max hold (x, z) for planes and
// (longitude, latitude) for spheres.
type BuilderSpec struct {
	Kind     string     `yaml:"kind" toml:"kind"`
	Module   int        `yaml:"module" toml:"module"`
	Min      [2]float64 `yaml:"min,flow" toml:"min"`
	Max      [2]float64 `yaml:"max,flow" toml:"max"`
	Seamless bool       `yaml:"seamless,omitempty" toml:"seamless,omitempty"`
	Seed     int64      `yaml:"seed" toml:"seed"`
}

type StopSpec struct {
	Position float64 `yaml:"position" toml:"position"`
	Color    string  `yaml:"color" toml:"color"`
}

type LightSpec struct {
	Azimuth    float64 `yaml:"azimuth" toml:"azimuth"`
	Elevation  float64 `yaml:"elevation" toml:"elevation"`
	Contrast   float64 `yaml:"contrast" toml:"contrast"`
	Brightness float64 `yaml:"brightness" toml:"brightness"`
	Color      string  `yaml:"color" toml:"color"`
}

// FormatColor renders c as #rrggbbaa.
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// ParseColor reads #rrggbb or #rrggbbaa. A missing alpha is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
