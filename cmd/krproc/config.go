package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	kraster "github.com/kabasset/KRaster"
)

// Config describes a processing pipeline: a boundary policy, a worker
// count and an ordered list of filtering steps.
type Config struct {
	// Workers is the number of goroutines per filter; 0 means
	// GOMAXPROCS.
	Workers int `yaml:"workers"`
	// Boundary selects the extrapolation policy: constant, nearest or
	// periodic. Defaults to nearest.
	Boundary string `yaml:"boundary"`
	// Steps are applied in order.
	Steps []Step `yaml:"steps"`
}

// Step is one pipeline stage. Op selects the operation; the remaining
// fields parameterize it and are ignored when irrelevant.
type Step struct {
	Op     string  `yaml:"op"`
	Sigma  float64 `yaml:"sigma"`  // gaussian
	Radius int     `yaml:"radius"` // median, mean, min, max
	Axis   int     `yaml:"axis"`   // sobel, prewitt, scharr
	Angle  float64 `yaml:"angle"`  // rotate, in degrees
	Factor float64 `yaml:"factor"` // scale
}

// LoadConfig parses a YAML pipeline description.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Boundary == "" {
		cfg.Boundary = "nearest"
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Boundary {
	case "constant", "nearest", "periodic":
	default:
		return fmt.Errorf("unknown boundary policy %q", c.Boundary)
	}
	for i, s := range c.Steps {
		switch s.Op {
		case "gaussian", "mean", "median", "min", "max",
			"sobel", "prewitt", "scharr", "laplace",
			"rotate", "scale":
		default:
			return fmt.Errorf("step %d: unknown op %q", i, s.Op)
		}
	}
	return nil
}

// policy returns the configured extrapolation policy.
func (c *Config) policy() kraster.Extrapolation[float64] {
	switch c.Boundary {
	case "constant":
		return kraster.Constant[float64]{}
	case "periodic":
		return kraster.Periodic[float64]{}
	default:
		return kraster.Nearest[float64]{}
	}
}

// run applies one step to the image and returns the result.
func (s Step) run(img *kraster.Raster[float64], cfg *Config) (*kraster.Raster[float64], error) {
	dim := img.Dimension()
	workers := kraster.WithWorkers(cfg.Workers)
	window := kraster.BoxFromShape(kraster.FullPosition(dim, 2*max(s.Radius, 1)+1)).
		Translate(kraster.FullPosition(dim, -max(s.Radius, 1)))

	switch s.Op {
	case "gaussian":
		f, err := kraster.GaussianFilter(dim, s.Sigma)
		if err != nil {
			return nil, err
		}
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "mean":
		f := kraster.MeanFilter[float64](window)
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "median":
		f := kraster.MedianFilter[float64](window)
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "min":
		f := kraster.MinimumFilter[float64](window)
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "max":
		f := kraster.MaximumFilter[float64](window)
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "sobel":
		f, err := kraster.SobelGradient[float64](dim, s.Axis, 1)
		if err != nil {
			return nil, err
		}
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "prewitt":
		f, err := kraster.PrewittGradient[float64](dim, s.Axis, 1)
		if err != nil {
			return nil, err
		}
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "scharr":
		f, err := kraster.ScharrGradient[float64](dim, s.Axis, 1)
		if err != nil {
			return nil, err
		}
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "laplace":
		f, err := kraster.LaplaceOperator[float64](dim, 1)
		if err != nil {
			return nil, err
		}
		return kraster.Apply(f, kraster.Extrapolate(img, cfg.policy()), workers), nil
	case "rotate":
		src := kraster.Interpolate(kraster.Extrapolate(img, cfg.policy()), kraster.CubicInterp)
		out := kraster.NewRaster[float64](img.Shape())
		if err := kraster.RotateRaster(src, out, s.Angle, 0, 1, workers); err != nil {
			return nil, err
		}
		return out, nil
	case "scale":
		src := kraster.Interpolate(kraster.Extrapolate(img, cfg.policy()), kraster.LinearInterp)
		out := kraster.NewRaster[float64](img.Shape())
		if err := kraster.ScaleRaster(src, out, s.Factor, workers); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown op %q", s.Op)
}
