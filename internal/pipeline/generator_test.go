package pipeline

import (
	"context"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MeKo-Tech/noisetex/internal/graphio"
	"github.com/MeKo-Tech/noisetex/internal/imageio"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	if cfg.OutputDir == "" {
		cfg.OutputDir = t.TempDir()
	}
	if cfg.Height == 0 {
		cfg.Height = 8
	}
	if cfg.Workers == 0 {
		cfg.Workers = 2
	}
	gen, err := NewGenerator(cfg)
	require.NoError(t, err)
	return gen
}

func lookup(t *testing.T, name string) scene.Scene {
	t.Helper()
	s, err := scene.Lookup(name)
	require.NoError(t, err)
	return s
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	dst := image.NewNRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

func TestGenerateWritesDescriptionAndImage(t *testing.T) {
	gen := newTestGenerator(t, Config{Seed: 3})

	path, err := gen.Generate(context.Background(), lookup(t, "jade"), scene.SurfaceSphere, false)
	require.NoError(t, err)
	assert.Equal(t, "TextureJadeSphere.png", filepath.Base(path))

	img, err := imageio.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())

	desc, err := graphio.ReadFile(graphio.DescriptionPath(path, graphio.FormatYAML))
	require.NoError(t, err)
	assert.Equal(t, int64(3), desc.Noise.Seed)
	require.Len(t, desc.Layers, 1)
	assert.Equal(t, "sphere", desc.Layers[0].Builder.Kind)
}

func TestGenerateSkipsExistingUnlessForced(t *testing.T) {
	gen := newTestGenerator(t, Config{})
	s := lookup(t, "wood")
	ctx := context.Background()

	path, err := gen.Generate(ctx, s, scene.SurfacePlane, false)
	require.NoError(t, err)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	_, err = gen.Generate(ctx, s, scene.SurfacePlane, false)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "existing texture is kept")

	_, err = gen.Generate(ctx, s, scene.SurfacePlane, true)
	require.NoError(t, err)
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old), "forced texture is rewritten")
}

func TestGenerateBMPWithTOMLAndThumbnail(t *testing.T) {
	gen := newTestGenerator(t, Config{
		Height:            16,
		ImageFormat:       imageio.FormatBMP,
		DescriptionFormat: graphio.FormatTOML,
		Thumbnail:         4,
	})

	path, err := gen.Generate(context.Background(), lookup(t, "sky"), scene.SurfaceSeamless, false)
	require.NoError(t, err)
	assert.Equal(t, "TextureSkySeamless.bmp", filepath.Base(path))

	_, err = imageio.Read(path)
	require.NoError(t, err)

	thumb, err := imageio.Read(imageio.ThumbnailPath(path))
	require.NoError(t, err)
	assert.Equal(t, 4, thumb.Bounds().Dx())

	desc, err := graphio.ReadFile(graphio.DescriptionPath(path, graphio.FormatTOML))
	require.NoError(t, err)
	assert.Len(t, desc.Layers, 2)
}

func TestReplayMatchesGeneratedImage(t *testing.T) {
	gen := newTestGenerator(t, Config{Seed: 11, Noise: noise.Simplex})
	ctx := context.Background()

	path, err := gen.Generate(ctx, lookup(t, "granite"), scene.SurfacePlane, false)
	require.NoError(t, err)

	desc, err := graphio.ReadFile(graphio.DescriptionPath(path, graphio.FormatYAML))
	require.NoError(t, err)

	replayed := filepath.Join(t.TempDir(), "replay.png")
	require.NoError(t, gen.Replay(ctx, desc, replayed, 8, 8))

	want, err := imageio.Read(path)
	require.NoError(t, err)
	got, err := imageio.Read(replayed)
	require.NoError(t, err)
	assert.Equal(t, toNRGBA(want).Pix, toNRGBA(got).Pix)
}

func TestGenerateCancelled(t *testing.T) {
	gen := newTestGenerator(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, lookup(t, "slime"), scene.SurfacePlane, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewGeneratorErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero height", Config{OutputDir: dir}},
		{"no output dir", Config{Height: 8}},
		{"negative thumbnail", Config{OutputDir: dir, Height: 8, Thumbnail: -1}},
		{"unknown noise", Config{OutputDir: dir, Height: 8, Noise: "value"}},
		{"unknown image format", Config{OutputDir: dir, Height: 8, ImageFormat: "gif"}},
		{"unknown description format", Config{OutputDir: dir, Height: 8, DescriptionFormat: "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.cfg)
			assert.Error(t, err)
		})
	}
}
