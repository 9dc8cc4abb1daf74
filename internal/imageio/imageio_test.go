package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 200, G: 40, B: 90, A: 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{R: 10, G: 220, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := checker(6, 3)

	for _, name := range []string{"a.png", "nested/b.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Write(path, src, Options{Compression: png.BestSpeed}))

			img, err := Read(path)
			require.NoError(t, err)
			assert.Equal(t, src.Bounds(), img.Bounds())
			for y := 0; y < 3; y++ {
				for x := 0; x < 6; x++ {
					got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
					assert.Equal(t, src.NRGBAAt(x, y), got, "pixel %d,%d", x, y)
				}
			}
		})
	}
}

func TestWriteRejectsUnknownExtension(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "a.gif"), checker(2, 2), Options{})
	assert.Error(t, err)

	_, err = Read(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestCompressionLevels(t *testing.T) {
	tests := map[string]png.CompressionLevel{
		"":        png.DefaultCompression,
		"default": png.DefaultCompression,
		"speed":   png.BestSpeed,
		"best":    png.BestCompression,
		"none":    png.NoCompression,
	}
	for name, want := range tests {
		got, err := ParseCompression(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseCompression("max")
	assert.Error(t, err)
}

func TestThumbnailKeepsAspect(t *testing.T) {
	thumb, err := Thumbnail(checker(64, 32), 16)
	require.NoError(t, err)
	assert.Equal(t, 16, thumb.Bounds().Dx())
	assert.Equal(t, 8, thumb.Bounds().Dy())

	thumb, err = Thumbnail(checker(10, 40), 20)
	require.NoError(t, err)
	assert.Equal(t, 5, thumb.Bounds().Dx())
	assert.Equal(t, 20, thumb.Bounds().Dy())

	_, err = Thumbnail(checker(4, 4), 0)
	assert.Error(t, err)
}

func TestWriteThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TextureWoodSphere.png")
	out, err := WriteThumbnail(path, checker(32, 16), 8, Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "TextureWoodSphere.thumb.png"), out)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}
