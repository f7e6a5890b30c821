package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// config holds the parsed command line
type config struct {
	Scene      string
	Width      int
	Height     int
	ParamsFile string
	Samples    int
	Bounces    int
	Workers    int
	Mode       string
	Budget     int
	OutputDir  string
	SaveScene  string
	Help       bool
}

// defaultSizes gives built-in scenes a natural aspect ratio
var defaultSizes = map[string][2]int{
	"cornell": {400, 400},
	"default": {400, 225},
}

func parseFlags(args []string) (config, *flag.FlagSet, error) {
	var cfg config
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.StringVar(&cfg.Scene, "scene", "default", "Built-in scene name or path to a .json scene file")
	fs.IntVar(&cfg.Width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&cfg.Height, "height", 0, "Image height (0 = scene default)")
	fs.StringVar(&cfg.ParamsFile, "params", "", "JSON render params file")
	fs.IntVar(&cfg.Samples, "samples", 0, "Samples per pixel (0 = keep params)")
	fs.IntVar(&cfg.Bounces, "bounces", -1, "Max bounces (-1 = keep params)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Number of workers (0 = one per logical CPU)")
	fs.StringVar(&cfg.Mode, "mode", "pixels", "Render mode: 'pixels' or 'budget'")
	fs.IntVar(&cfg.Budget, "budget", 0, "Total samples in budget mode (0 = keep params)")
	fs.StringVar(&cfg.OutputDir, "out", "output", "Output directory")
	fs.StringVar(&cfg.SaveScene, "save-scene", "", "Also write the scene, camera and params to this .json file")
	fs.BoolVar(&cfg.Help, "help", false, "Show help information")
	if err := fs.Parse(args); err != nil {
		return cfg, fs, err
	}
	if cfg.Mode != "pixels" && cfg.Mode != "budget" {
		return cfg, fs, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	return cfg, fs, nil
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.SetOutput(os.Stdout)
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range loaders.BuiltinScenes() {
		fmt.Printf("  %s - %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png")
}

// resolveParams layers the params file and flag overrides over the scene's params
func resolveParams(cfg config, base renderer.Params) (renderer.Params, error) {
	params := base
	if cfg.ParamsFile != "" {
		loaded, err := renderer.LoadParams(cfg.ParamsFile)
		if err != nil {
			return params, err
		}
		params = loaded
	}
	if cfg.Samples > 0 {
		params.SamplesPerPixel = cfg.Samples
	}
	if cfg.Bounces >= 0 {
		params.Bounces = cfg.Bounces
	}
	if cfg.Budget > 0 {
		params.Budget = cfg.Budget
	}
	return params, params.Validate()
}

// sceneLabel names the output directory for a scene argument
func sceneLabel(name string) string {
	if loaders.IsSceneFile(name) {
		return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return name
}

// run renders according to cfg and returns the path of the written PNG
func run(ctx context.Context, cfg config) (string, error) {
	sc, cam, sceneParams, err := loaders.Resolve(cfg.Scene)
	if err != nil {
		return "", err
	}
	params, err := resolveParams(cfg, sceneParams)
	if err != nil {
		return "", err
	}

	width, height := cfg.Width, cfg.Height
	if size, ok := defaultSizes[cfg.Scene]; ok {
		if width <= 0 {
			width = size[0]
		}
		if height <= 0 {
			height = size[1]
		}
	}
	if width <= 0 {
		width = 400
	}
	if height <= 0 {
		height = 400
	}

	if cfg.SaveScene != "" {
		file := loaders.NewSceneFile(sceneLabel(cfg.Scene), sc, cam, params)
		if err := loaders.SaveSceneFile(cfg.SaveScene, file); err != nil {
			return "", err
		}
		fmt.Printf("Scene saved as %s\n", cfg.SaveScene)
	}

	outputDir := filepath.Join(cfg.OutputDir, sceneLabel(cfg.Scene))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	pool := renderer.NewWorkerPool(cfg.Workers)
	defer pool.Stop()
	pr := renderer.NewParallelRenderer(pool, renderer.NewDefaultLogger())

	var img image.Image
	switch cfg.Mode {
	case "budget":
		img, _, err = pr.RenderBudget(ctx, sc, cam, width, height, params)
	default:
		var frame *renderer.Frame
		frame, err = pr.Render(ctx, sc, cam, width, height, params, func(u renderer.BandUpdate) {
			fmt.Printf("Band %d/%d done (rows %d-%d)\n", u.Completed, u.Total, u.Band.StartRow, u.Band.EndRow-1)
		})
		if err == nil {
			img = frame.ToImage()
		}
	}
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("error saving PNG: %w", err)
	}
	return filename, nil
}

func main() {
	cfg, fs, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}
	if cfg.Help {
		printHelp(fs)
		return
	}

	fmt.Println("Starting Path Tracer...")
	if _, ok := defaultSizes[cfg.Scene]; !ok && !loaders.IsSceneFile(cfg.Scene) {
		fmt.Printf("Available scenes: %s\n", strings.Join(scene.BuiltinNames(), ", "))
	}

	startTime := time.Now()
	filename, err := run(context.Background(), cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Render completed in %v\n", time.Since(startTime))
	fmt.Printf("Render saved as %s\n", filename)
}
