package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/MeKo-Tech/noisetex/internal/graphio"
	"github.com/MeKo-Tech/noisetex/internal/imageio"
	"github.com/MeKo-Tech/noisetex/internal/noise"
	"github.com/MeKo-Tech/noisetex/internal/pipeline"
	"github.com/MeKo-Tech/noisetex/internal/scene"
	"github.com/MeKo-Tech/noisetex/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render scene textures",
	Long: `Render the selected scenes on the selected surfaces. Each texture is written
together with a description of its module graph.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Int("height", 256, "Texture height in pixels; spheres are twice as wide")
	renderCmd.Flags().Int64("seed", 0, "Noise seed")
	renderCmd.Flags().StringSlice("scenes", nil, "Scenes to render (default: all)")
	renderCmd.Flags().StringSlice("surfaces", nil, "Surfaces to render: plane, seamless, sphere (default: all)")
	renderCmd.Flags().IntP("workers", "w", 0, "Rows rendered in parallel per texture (default: number of CPUs)")
	renderCmd.Flags().IntP("jobs", "j", 1, "Textures rendered in parallel")
	renderCmd.Flags().String("format", "png", "Image format: png or bmp")
	renderCmd.Flags().String("description-format", "yaml", "Graph description format: yaml or toml")
	renderCmd.Flags().String("noise", "perlin", "Noise algorithm: perlin or simplex")
	renderCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	renderCmd.Flags().Int("thumbnail", 0, "Also write a thumbnail with this longer side (0 disables)")
	renderCmd.Flags().Bool("force", false, "Force regeneration even if the texture exists")
	renderCmd.Flags().Bool("progress", true, "Show progress bar")
	renderCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some textures fail")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.height", "height"},
		{"render.seed", "seed"},
		{"render.scenes", "scenes"},
		{"render.surfaces", "surfaces"},
		{"render.workers", "workers"},
		{"render.jobs", "jobs"},
		{"render.format", "format"},
		{"render.description_format", "description-format"},
		{"render.noise", "noise"},
		{"render.png_compression", "png-compression"},
		{"render.thumbnail", "thumbnail"},
		{"render.force", "force"},
		{"render.progress", "progress"},
		{"render.allow_failures", "allow-failures"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	outputDir := viper.GetString("output-dir")
	height := viper.GetInt("render.height")
	seed := viper.GetInt64("render.seed")
	workers := viper.GetInt("render.workers")
	jobs := viper.GetInt("render.jobs")
	force := viper.GetBool("render.force")
	showProgress := viper.GetBool("render.progress")
	allowFailures := viper.GetBool("render.allow_failures")

	scenes, err := scene.Select(splitList(viper.GetStringSlice("render.scenes")))
	if err != nil {
		return err
	}
	surfaces, err := scene.ParseSurfaces(splitList(viper.GetStringSlice("render.surfaces")))
	if err != nil {
		return err
	}
	compression, err := imageio.ParseCompression(viper.GetString("render.png_compression"))
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if jobs <= 0 {
		jobs = 1
	}

	gen, err := pipeline.NewGenerator(pipeline.Config{
		OutputDir:         outputDir,
		Height:            height,
		Seed:              seed,
		Noise:             noise.Algorithm(viper.GetString("render.noise")),
		ImageFormat:       imageio.Format(viper.GetString("render.format")),
		DescriptionFormat: graphio.Format(viper.GetString("render.description_format")),
		Image:             imageio.Options{Compression: compression},
		Thumbnail:         viper.GetInt("render.thumbnail"),
		Workers:           workers,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	tasks := worker.Tasks(scenes, surfaces, force)
	logger.Info("Starting texture generation",
		"textures", len(tasks),
		"height", height,
		"seed", seed,
		"jobs", jobs,
		"workers", workers,
		"output_dir", outputDir,
	)

	progress := worker.NewProgress(len(tasks), showProgress)
	pool := worker.New(worker.Config{
		Workers:    jobs,
		Generator:  gen,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("Texture generation failed", "texture", r.Task.Name(), "error", r.Err)
			continue
		}
		logger.Debug("Texture generated", "texture", r.Task.Name(), "path", r.Path, "elapsed", r.Elapsed)
	}

	logger.Info(progress.Summary())

	if err := ctx.Err(); err != nil {
		return err
	}
	if failedCount > 0 {
		if allowFailures {
			logger.Warn("Some textures failed to generate, but continuing due to --allow-failures flag", "failed_count", failedCount)
			return nil
		}
		return fmt.Errorf("%d textures failed to generate", failedCount)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// splitList flattens comma separated entries, as produced by config files and
// environment variables, and drops empty items.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
