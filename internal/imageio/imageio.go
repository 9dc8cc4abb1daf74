// Package imageio writes and reads rendered textures as PNG or BMP files.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"
)

// Format is an image file format.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ParseFormat maps a name to a Format. An empty name selects PNG.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("unknown image format %q (want png or bmp)", name)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer image format of %q", path)
	}
	return ParseFormat(ext)
}

// ParseCompression maps default, speed, best or none to a PNG level.
func ParseCompression(name string) (png.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed", "fast":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("unknown png compression %q (want default, speed, best or none)", name)
	}
}

// Options controls encoding.
type Options struct {
	// Compression applies to PNG output only.
	Compression png.CompressionLevel
}

// Write encodes img to path in the format named by its extension, creating
// parent directories as needed.
func Write(path string, img image.Image, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image %s: %w", path, err)
	}

	switch format {
	case FormatBMP:
		err = bmp.Encode(file, img)
	default:
		enc := png.Encoder{CompressionLevel: opts.Compression}
		err = enc.Encode(file, img)
	}
	if err != nil {
		file.Close() // nolint:errcheck
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close image %s: %w", path, err)
	}
	return nil
}

// Read decodes a PNG or BMP file.
func Read(path string) (image.Image, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer file.Close()

	var img image.Image
	switch format {
	case FormatBMP:
		img, err = bmp.Decode(file)
	default:
		img, err = png.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Thumbnail scales img so its longer side is size pixels, keeping the aspect
// ratio, with a Lanczos filter.
func Thumbnail(img image.Image, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("thumbnail size must be positive, got %d", size)
	}

	b := img.Bounds()
	w, h := size, 0
	if b.Dy() > b.Dx() {
		w, h = 0, size
	}

	g := gift.New(gift.Resize(w, h, gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst, nil
}

// ThumbnailPath inserts ".thumb" before the extension of path.
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".thumb" + ext
}

// WriteThumbnail writes a thumbnail of img next to path and returns its path.
func WriteThumbnail(path string, img image.Image, size int, opts Options) (string, error) {
	thumb, err := Thumbnail(img, size)
	if err != nil {
		return "", err
	}
	out := ThumbnailPath(path)
	if err := Write(out, thumb, opts); err != nil {
		return "", err
	}
	return out, nil
}
