// Command krproc runs a configurable filtering pipeline over a
// grayscale image.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	kraster "github.com/kabasset/KRaster"
)

func main() {
	var (
		configPath = flag.String("config", "pipeline.yaml", "pipeline configuration file")
		input      = flag.String("input", "", "input image (png or tiff)")
		output     = flag.String("output", "out.png", "output image (png or tiff)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("missing -input")
	}
	if *verbose {
		kraster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pixels, err := loadImage(*input)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *input, err)
	}

	img := toFloat(pixels)
	for i, step := range cfg.Steps {
		img, err = step.run(img, cfg)
		if err != nil {
			log.Fatalf("Step %d (%s) failed: %v", i, step.Op, err)
		}
	}

	if err := saveImage(*output, toBytes(img)); err != nil {
		log.Fatalf("Failed to save %s: %v", *output, err)
	}
	log.Printf("Wrote %s (%d steps)\n", *output, len(cfg.Steps))
}

func loadImage(path string) (*kraster.Raster[uint8], error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return kraster.LoadTIFF(path)
	default:
		return kraster.LoadPNG(path)
	}
}

func saveImage(path string, r *kraster.Raster[uint8]) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return kraster.SaveTIFF(path, r)
	default:
		return kraster.SavePNG(path, r)
	}
}

func toFloat(in *kraster.Raster[uint8]) *kraster.Raster[float64] {
	out := kraster.NewRaster[float64](in.Shape())
	for i, v := range in.Data() {
		out.Data()[i] = float64(v)
	}
	return out
}

// toBytes rounds and clamps to the 8-bit range.
func toBytes(in *kraster.Raster[float64]) *kraster.Raster[uint8] {
	out := kraster.NewRaster[uint8](in.Shape())
	for i, v := range in.Data() {
		out.Data()[i] = uint8(math.Min(255, math.Max(0, math.Round(v))))
	}
	return out
}
