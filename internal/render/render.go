// Package render turns noise maps into colors: gradient lookup, optional
// directional lighting and straight-alpha layer compositing.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/module"
)

// ErrConfig is module.ErrConfig, wrapped by renderer configuration errors.
var ErrConfig = module.ErrConfig

// Renderer is a stack of layers composited bottom to top.
type Renderer interface {
	// Layers returns the layers in drawing order, bottom first.
	Layers() []*Layer
}

// Layer colors the noise map of one builder.
type Layer struct {
	builder  builder.Builder
	gradient *Gradient
	light    *Light
}

// NewLayer creates a layer. A nil light disables shading.
func NewLayer(b builder.Builder, g *Gradient, light *Light) (*Layer, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: layer builder is nil", ErrConfig)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: layer gradient is nil", ErrConfig)
	}

	l := &Layer{builder: b, gradient: g}
	if light != nil {
		if err := light.validate(); err != nil {
			return nil, err
		}
		lc := *light
		l.light = &lc
	}
	return l, nil
}

func (l *Layer) Builder() builder.Builder { return l.builder }
func (l *Layer) Gradient() *Gradient { return l.gradient }

// Light returns a copy of the light, or nil when shading is off.
func (l *Layer) Light() *Light {
	if l.light == nil {
		return nil
	}
	lc := *l.light
	return &lc
}

// Layers implements Renderer.
func (l *Layer) Layers() []*Layer { return []*Layer{l} }

// ColorRow writes the colors of row y of nm into out, which holds
// 4*nm.Width bytes of NRGBA pixels.
func (l *Layer) ColorRow(nm *builder.NoiseMap, y int, out []uint8) {
	var lx, ly, lz float64
	if l.light != nil {
		lx, ly, lz = l.light.direction()
	}

	for x := 0; x < nm.Width; x++ {
		c := l.gradient.Color(nm.At(x, y))
		p := out[x*4 : x*4+4 : x*4+4]

		if l.light != nil {
			s := l.light.shade(nm, x, y, lx, ly, lz)
			c.R = clampUint8(float64(c.R) * s * float64(l.light.Color.R) / 255)
			c.G = clampUint8(float64(c.G) * s * float64(l.light.Color.G) / 255)
			c.B = clampUint8(float64(c.B) * s * float64(l.light.Color.B) / 255)
		}

		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
}

// Blend draws upper over lower.
type Blend struct {
	lower, upper Renderer
}

// NewBlend stacks upper over lower.
func NewBlend(lower, upper Renderer) (*Blend, error) {
	if lower == nil || upper == nil {
		return nil, fmt.Errorf("%w: blend needs a lower and an upper renderer", ErrConfig)
	}
	return &Blend{lower: lower, upper: upper}, nil
}

func (b *Blend) Lower() Renderer { return b.lower }
func (b *Blend) Upper() Renderer { return b.upper }

// Layers implements Renderer.
func (b *Blend) Layers() []*Layer {
	out := append([]*Layer(nil), b.lower.Layers()...)
	return append(out, b.upper.Layers()...)
}

// OverRow composites src over dst in place. Both hold NRGBA pixels with
// straight alpha. Fully transparent src pixels leave dst untouched.
func OverRow(dst, src []uint8) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		s := src[i : i+4 : i+4]
		if s[3] == 0 {
			continue
		}
		d := dst[i : i+4 : i+4]

		sa := float64(s[3]) / 255.0
		da := float64(d[3]) / 255.0

		outA := sa + da*(1.0-sa)
		if outA == 0 {
			d[0], d[1], d[2], d[3] = 0, 0, 0, 0
			continue
		}

		blend := func(srcVal, dstVal uint8) uint8 {
			srcPremult := float64(srcVal) * sa
			dstPremult := float64(dstVal) * da
			outPremult := srcPremult + dstPremult*(1.0-sa)
			return uint8(math.Round(outPremult / outA))
		}

		d[0], d[1], d[2] = blend(s[0], d[0]), blend(s[1], d[1]), blend(s[2], d[2])
		d[3] = uint8(math.Round(outA * 255.0))
	}
}

// Render colors and composites prebuilt noise maps on the calling goroutine.
// maps[i] belongs to r.Layers()[i].
func Render(r Renderer, maps []*builder.NoiseMap) (*image.NRGBA, error) {
	layers := r.Layers()
	if len(maps) != len(layers) {
		return nil, fmt.Errorf("got %d noise maps for %d layers", len(maps), len(layers))
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("renderer has no layers")
	}

	w, h := maps[0].Width, maps[0].Height
	for _, nm := range maps[1:] {
		if nm.Width != w || nm.Height != h {
			return nil, fmt.Errorf("noise map size %dx%d does not match %dx%d", nm.Width, nm.Height, w, h)
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scratch := make([]uint8, 4*w)
	for y := 0; y < h; y++ {
		CompositeRow(layers, maps, y, dst.Pix[y*dst.Stride:y*dst.Stride+4*w], scratch)
	}
	return dst, nil
}

// CompositeRow renders row y of every layer into out, bottom layer first.
// scratch must hold at least len(out) bytes.
func CompositeRow(layers []*Layer, maps []*builder.NoiseMap, y int, out, scratch []uint8) {
	layers[0].ColorRow(maps[0], y, out)
	for i := 1; i < len(layers); i++ {
		layers[i].ColorRow(maps[i], y, scratch)
		OverRow(out, scratch[:len(out)])
	}
}
