// Package kraster provides N-dimensional rasters, lattice regions and
// a neighborhood filter engine for Go.
//
// # Overview
//
// kraster handles ND image data with runtime dimension: a Raster is a
// contiguous row-major buffer addressed by Positions, and Regions (Box,
// Mask, Grid) describe sets of lattice positions. On top of them, a
// filter engine evaluates kernels (correlation, convolution, rank
// filters, morphology) over structuring elements, with composable
// sequences and aggregates, boundary extrapolation and interpolation,
// and affine resampling.
//
// # Quick Start
//
//	import "github.com/kabasset/KRaster"
//
//	// A 2-D raster filled with a ramp
//	img := kraster.NewRaster[float64](kraster.Position{128, 128})
//	for i := range img.Data() {
//	    img.Data()[i] = float64(i)
//	}
//
//	// Smooth it with a separable Gaussian, clamping to the edge values
//	f, _ := kraster.GaussianFilter(2, 1.5)
//	out := kraster.Apply(f, kraster.Extrapolate(img, kraster.Nearest[float64]{}))
//
//	// Resample: rotate 30 degrees about the center with cubic taps
//	src := kraster.Interpolate(
//	    kraster.Extrapolate(img, kraster.Constant[float64]{}),
//	    kraster.CubicInterp)
//	rot := kraster.NewRaster[float64](img.Shape())
//	_ = kraster.RotateRaster(src, rot, 30, 0, 1)
//
// # Architecture
//
// The library is organized into:
//   - Data: Raster, Patch, Position, Vector
//   - Regions: Box, Mask, Grid behind the Region interface
//   - Boundary: extrapolation policies and interpolation methods
//   - Filters: Kernel, SimpleFilter, FilterSeq, FilterAgg
//   - Geometry: Affinity resampling backed by gonum
//
// Filter evaluation is single-threaded by default; pass WithWorkers to
// split the output domain across goroutines.
package kraster
