// Package pipeline turns a scene and surface into files on disk: the graph
// description, the rendered image and an optional thumbnail.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/noisetex/internal/graphio"
	"github.com/MeKo-Tech/noisetex/internal/imageio"
	"github.com/MeKo-Tech/noisetex/internal/mapgen"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/render"
	"github.com/MeKo-Tech/noisetex/internal/scene"
)

// Config configures a Generator.
type Config struct {
	OutputDir string
	// Height of every texture; planes are square, spheres twice as wide.
	Height            int
	Seed              int64
	Noise             noise.Algorithm
	ImageFormat       imageio.Format
	DescriptionFormat graphio.Format
	Image             imageio.Options
	// Thumbnail is the longer side of an extra preview image; 0 disables it.
	Thumbnail int
	// Workers bounds row parallelism inside one texture.
	Workers int
	Logger  *slog.Logger
}

// Generator wires scene graphs, the map generator and file output into a
// single step. It is safe for concurrent use by several pool workers.
type Generator struct {
	cfg    Config
	maps   *mapgen.Generator
	logger *slog.Logger
}

// NewGenerator validates cfg and prepares a generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.Height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", cfg.Height)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory must be set")
	}
	if cfg.Thumbnail < 0 {
		return nil, fmt.Errorf("thumbnail size must not be negative, got %d", cfg.Thumbnail)
	}

	var err error
	if cfg.Noise, err = noise.ParseAlgorithm(string(cfg.Noise)); err != nil {
		return nil, err
	}
	if cfg.ImageFormat, err = imageio.ParseFormat(string(cfg.ImageFormat)); err != nil {
		return nil, err
	}
	if cfg.DescriptionFormat, err = graphio.ParseFormat(string(cfg.DescriptionFormat)); err != nil {
		return nil, err
	}

	return &Generator{
		cfg:    cfg,
		maps:   mapgen.New(mapgen.Options{Workers: cfg.Workers, Logger: cfg.Logger}),
		logger: cfg.Logger,
	}, nil
}

// ImagePath returns where the texture for s on surface is written.
func (g *Generator) ImagePath(s scene.Scene, surface scene.Surface) string {
	return filepath.Join(g.cfg.OutputDir, s.FileName(surface)+"."+string(g.cfg.ImageFormat))
}

// Generate builds, describes, renders and writes one texture. An existing
// image is kept unless force is set. Returns the image path.
func (g *Generator) Generate(ctx context.Context, s scene.Scene, surface scene.Surface, force bool) (string, error) {
	finalPath := g.ImagePath(s, surface)
	name := s.FileName(surface)

	if !force {
		if _, err := os.Stat(finalPath); err == nil {
			g.log().Info("Texture already exists; skipping", "texture", name, "path", finalPath)
			return finalPath, nil
		}
	}

	src, err := noise.New(g.cfg.Seed, g.cfg.Noise)
	if err != nil {
		return "", err
	}
	r, err := s.Renderer(src, surface)
	if err != nil {
		return "", fmt.Errorf("failed to configure %s: %w", name, err)
	}

	width, height := surface.Size(g.cfg.Height)
	return finalPath, g.write(ctx, name, finalPath, src, r, width, height)
}

// Replay renders a decoded description to path. The image format follows the
// extension of path; the description itself is not rewritten.
func (g *Generator) Replay(ctx context.Context, f *graphio.File, path string, width, height int) error {
	_, r, err := f.Reconstruct()
	if err != nil {
		return fmt.Errorf("failed to rebuild description: %w", err)
	}

	img, err := g.render(ctx, filepath.Base(path), r, width, height)
	if err != nil {
		return err
	}
	return g.writeImage(filepath.Base(path), path, img)
}

func (g *Generator) write(ctx context.Context, name, path string, src *noise.Source, r render.Renderer, width, height int) error {
	desc, err := graphio.Describe(src, r)
	if err != nil {
		return fmt.Errorf("failed to describe %s: %w", name, err)
	}
	descPath := graphio.DescriptionPath(path, g.cfg.DescriptionFormat)
	if err := graphio.WriteFile(descPath, desc); err != nil {
		return fmt.Errorf("failed to write %s description: %w", name, err)
	}
	g.log().Debug("Wrote description", "texture", name, "path", descPath, "modules", len(desc.Modules))

	img, err := g.render(ctx, name, r, width, height)
	if err != nil {
		return err
	}
	return g.writeImage(name, path, img)
}

func (g *Generator) render(ctx context.Context, name string, r render.Renderer, width, height int) (*image.NRGBA, error) {
	g.log().Info("Rendering texture", "texture", name, "width", width, "height", height, "layers", len(r.Layers()))
	start := time.Now()

	img, err := g.maps.ColorMap(ctx, r, width, height)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	g.log().Debug("Rendered texture", "texture", name, "elapsed", time.Since(start))
	return img, nil
}

func (g *Generator) writeImage(name, path string, img image.Image) error {
	g.log().Info("Writing texture", "texture", name, "path", path)
	if err := imageio.Write(path, img, g.cfg.Image); err != nil {
		return err
	}

	if g.cfg.Thumbnail > 0 {
		thumb, err := imageio.WriteThumbnail(path, img, g.cfg.Thumbnail, g.cfg.Image)
		if err != nil {
			return fmt.Errorf("failed to write %s thumbnail: %w", name, err)
		}
		g.log().Debug("Wrote thumbnail", "texture", name, "path", thumb)
	}
	return nil
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}
