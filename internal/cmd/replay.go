package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/noisetex/internal/builder"
	"github.com/MeKo-Tech/noisetex/internal/graphio"
	"github.com/MeKo-Tech/noisetex/internal/imageio"
	"github.com/MeKo-Tech/noisetex/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var replayCmd = &cobra.Command{
	Use:   "replay <description>",
	Short: "Render a texture from a graph description",
	Long: `Rebuild the module graph stored in a .noise.yaml or .noise.toml description
and render it again, typically at a different size.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().Int("height", 512, "Texture height in pixels")
	replayCmd.Flags().Int("width", 0, "Texture width in pixels (default: height, or twice the height for spheres)")
	replayCmd.Flags().StringP("output", "o", "", "Output image (default: next to the description with a .replay.png suffix)")
	replayCmd.Flags().IntP("workers", "w", 0, "Rows rendered in parallel (default: number of CPUs)")
	replayCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	replayCmd.Flags().Int("thumbnail", 0, "Also write a thumbnail with this longer side (0 disables)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"replay.height", "height"},
		{"replay.width", "width"},
		{"replay.output", "output"},
		{"replay.workers", "workers"},
		{"replay.png_compression", "png-compression"},
		{"replay.thumbnail", "thumbnail"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, replayCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	descPath := args[0]
	desc, err := graphio.ReadFile(descPath)
	if err != nil {
		return err
	}

	height := viper.GetInt("replay.height")
	width := viper.GetInt("replay.width")
	if width <= 0 {
		width = replayWidth(desc, height)
	}
	output := viper.GetString("replay.output")
	if output == "" {
		output = replayPath(descPath)
	}

	compression, err := imageio.ParseCompression(viper.GetString("replay.png_compression"))
	if err != nil {
		return err
	}
	format, err := imageio.FormatFromPath(output)
	if err != nil {
		return err
	}

	gen, err := pipeline.NewGenerator(pipeline.Config{
		OutputDir:   filepath.Dir(output),
		Height:      height,
		ImageFormat: format,
		Image:       imageio.Options{Compression: compression},
		Thumbnail:   viper.GetInt("replay.thumbnail"),
		Workers:     viper.GetInt("replay.workers"),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := gen.Replay(ctx, desc, output, width, height); err != nil {
		return err
	}
	logger.Info("Texture replayed", "description", descPath, "path", output, "width", width, "height", height)
	return nil
}

// replayWidth keeps the 2:1 aspect of sphere textures.
func replayWidth(desc *graphio.File, height int) int {
	for _, l := range desc.Layers {
		if l.Builder.Kind == string(builder.KindSphere) {
			return 2 * height
		}
	}
	return height
}

// replayPath derives the default output image from a description path.
func replayPath(descPath string) string {
	base := strings.TrimSuffix(descPath, filepath.Ext(descPath))
	base = strings.TrimSuffix(base, ".noise")
	return base + ".replay.png"
}
