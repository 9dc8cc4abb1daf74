// Package mapgen drives builders and renderers over an output grid in
// parallel row batches.
package mapgen

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"time"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/render"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchRows is the number of rows one worker claims at a time.
const DefaultBatchRows = 8

// Options configures a Generator.
type Options struct {
	// Workers limits concurrent row batches. Zero means runtime.NumCPU().
	Workers int
	// BatchRows is the number of rows per batch. Zero means DefaultBatchRows.
	BatchRows int
	Logger    *slog.Logger
}

// Generator evaluates noise maps and color maps. Its output does not depend on
// the worker count or on batch scheduling: every row is computed by the same
// pure function and written to its own slot.
type Generator struct {
	workers   int
	batchRows int
	logger    *slog.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	batch := opts.BatchRows
	if batch <= 0 {
		batch = DefaultBatchRows
	}
	return &Generator{workers: workers, batchRows: batch, logger: opts.Logger}
}

func (g *Generator) log() *slog.Logger {
	if g.logger != nil {
		return g.logger
	}
	return slog.Default()
}

// Workers returns the effective worker limit.
func (g *Generator) Workers() int { return g.workers }

// NoiseMap samples b over a width x height grid.
func (g *Generator) NoiseMap(ctx context.Context, b builder.Builder, width, height int) (*builder.NoiseMap, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}

	nm := builder.NewNoiseMap(width, height, b.Seamless())
	err := g.rows(ctx, height, func(y int) {
		nm.FillRow(b, y)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s noise map: %w", b.Kind(), err)
	}
	return nm, nil
}

// ColorMap builds the noise map of every layer of r, then colors and
// composites them bottom to top.
func (g *Generator) ColorMap(ctx context.Context, r render.Renderer, width, height int) (*image.NRGBA, error) {
	if err := checkSize(width, height); err != nil {
		return nil, err
	}
	layers := r.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("renderer has no layers")
	}

	start := time.Now()
	maps := make([]*builder.NoiseMap, len(layers))
	for i, l := range layers {
		nm, err := g.NoiseMap(ctx, l.Builder(), width, height)
		if err != nil {
			return nil, fmt.Errorf("failed to build layer %d: %w", i, err)
		}
		maps[i] = nm
	}
	noiseElapsed := time.Since(start)

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	// Row y of the shading pass reads rows y-1 and y+1 of the noise map, so
	// coloring waits until every map is complete.
	err := g.batches(ctx, height, func(y0, y1 int) {
		scratch := make([]uint8, 4*width)
		for y := y0; y < y1; y++ {
			row := dst.Pix[y*dst.Stride : y*dst.Stride+4*width]
			render.CompositeRow(layers, maps, y, row, scratch)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to color map: %w", err)
	}

	g.log().Debug("Color map generated",
		"width", width,
		"height", height,
		"layers", len(layers),
		"workers", g.workers,
		"noise", noiseElapsed,
		"total", time.Since(start))

	return dst, nil
}

func (g *Generator) rows(ctx context.Context, height int, fn func(y int)) error {
	return g.batches(ctx, height, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fn(y)
		}
	})
}

// batches runs fn over [0, height) in chunks of batchRows. The context is
// checked before each batch starts.
func (g *Generator) batches(ctx context.Context, height int, fn func(y0, y1 int)) error {
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for y0 := 0; y0 < height; y0 += g.batchRows {
		if gctx.Err() != nil {
			break
		}
		y1 := min(y0+g.batchRows, height)
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("map size must be positive, got %dx%d", width, height)
	}
	return nil
}
