package kraster

import (
	"fmt"
	"math"
)

// weighted holds a window region plus one weight per window position,
// in window (row-major) order. It is the shared state of the
// correlation and convolution kernels.
type weighted[T Number] struct {
	window  Region
	weights []T
}

// Window returns the kernel window.
func (w *weighted[T]) Window() Region { return w.window }

// Weights returns the per-position weights, in window order.
func (w *weighted[T]) Weights() []T { return w.weights }

// CorrelationKernel computes the inner product of the weights and the
// neighbor values, in window order.
type CorrelationKernel[T Number] struct {
	weighted[T]
}

// Apply returns sum(w[i] * v[i]).
func (k *CorrelationKernel[T]) Apply(neighbors []T) T {
	var out T
	for i, w := range k.weights {
		out += w * neighbors[i]
	}
	return out
}

// ConvolutionKernel computes the inner product of the reversed weights
// and the neighbor values: true signal-processing convolution.
type ConvolutionKernel[T Number] struct {
	weighted[T]
}

// Apply returns sum(w[n-1-i] * v[i]).
func (k *ConvolutionKernel[T]) Apply(neighbors []T) T {
	var out T
	last := len(k.weights) - 1
	for i := range neighbors {
		out += k.weights[last-i] * neighbors[i]
	}
	return out
}

// MeanKernel averages the neighbor values. Integer element types
// truncate, like integer division.
type MeanKernel[T Number] struct {
	window Region
}

// Window returns the structuring element.
func (k *MeanKernel[T]) Window() Region { return k.window }

// Apply returns the arithmetic mean of the neighbors.
func (k *MeanKernel[T]) Apply(neighbors []T) T {
	var sum T
	for _, v := range neighbors {
		sum += v
	}
	return sum / fromFloat[T](float64(len(neighbors)))
}

// MedianKernel selects the middle order statistic via partial
// selection; no full sort. For an even neighbor count it averages the
// two middle order statistics: the median is otherwise ill-defined
// dimension-agnostically for ties.
type MedianKernel[T Number] struct {
	window Region
}

// Window returns the structuring element.
func (k *MedianKernel[T]) Window() Region { return k.window }

// Apply selects the median, reordering the neighbors slice in place.
func (k *MedianKernel[T]) Apply(neighbors []T) T {
	n := len(neighbors)
	mid := n / 2
	m := nthElement(neighbors, mid)
	if n%2 == 1 {
		return m
	}
	lower := nthElement(neighbors[:mid], mid-1)
	return fromFloat[T]((toFloat(lower) + toFloat(m)) / 2)
}

// nthElement places the n-th smallest value of v at index n and
// returns it, partially ordering v around it (quickselect).
func nthElement[T Number](v []T, n int) T {
	lo, hi := 0, len(v)-1
	for lo < hi {
		pivot := v[(lo+hi)/2]
		i, j := lo, hi
		for i <= j {
			for v[i] < pivot {
				i++
			}
			for v[j] > pivot {
				j--
			}
			if i <= j {
				v[i], v[j] = v[j], v[i]
				i++
				j--
			}
		}
		if n <= j {
			hi = j
		} else if n >= i {
			lo = i
		} else {
			break
		}
	}
	return v[n]
}

// MinimumKernel returns the smallest neighbor value.
type MinimumKernel[T Number] struct {
	window Region
}

// Window returns the structuring element.
func (k *MinimumKernel[T]) Window() Region { return k.window }

// Apply returns the minimum of the neighbors.
func (k *MinimumKernel[T]) Apply(neighbors []T) T {
	out := neighbors[0]
	for _, v := range neighbors[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

// MaximumKernel returns the largest neighbor value.
type MaximumKernel[T Number] struct {
	window Region
}

// Window returns the structuring element.
func (k *MaximumKernel[T]) Window() Region { return k.window }

// Apply returns the maximum of the neighbors.
func (k *MaximumKernel[T]) Apply(neighbors []T) T {
	out := neighbors[0]
	for _, v := range neighbors[1:] {
		if v > out {
			out = v
		}
	}
	return out
}

// ErosionKernel is the logical AND of the boolean neighborhood: an
// optimization of the minimum filter for booleans. A false center
// short-circuits to false without fetching the neighborhood.
type ErosionKernel struct {
	window Region
}

// Window returns the structuring element.
func (k *ErosionKernel) Window() Region { return k.window }

// Apply reports whether every neighbor is set.
func (k *ErosionKernel) Apply(neighbors []bool) bool {
	for _, v := range neighbors {
		if !v {
			return false
		}
	}
	return true
}

func (k *ErosionKernel) shortCircuit(center bool) (bool, bool) {
	if !center {
		return false, true
	}
	return false, false
}

// DilationKernel is the logical OR of the boolean neighborhood: an
// optimization of the maximum filter for booleans. A true center
// short-circuits to true without fetching the neighborhood.
type DilationKernel struct {
	window Region
}

// Window returns the structuring element.
func (k *DilationKernel) Window() Region { return k.window }

// Apply reports whether any neighbor is set.
func (k *DilationKernel) Apply(neighbors []bool) bool {
	for _, v := range neighbors {
		if v {
			return true
		}
	}
	return false
}

func (k *DilationKernel) shortCircuit(center bool) (bool, bool) {
	if center {
		return true, true
	}
	return false, false
}

// Correlate builds a correlation filter from a flat weight buffer and
// its window. The buffer length must equal the window size.
func Correlate[T Number](weights []T, window Region) (*SimpleFilter[T], error) {
	if len(weights) != window.Size() {
		return nil, fmt.Errorf("%w: %d weights for window of size %d", ErrShapeMismatch, len(weights), window.Size())
	}
	k := &CorrelationKernel[T]{weighted[T]{window: window, weights: append([]T(nil), weights...)}}
	return NewSimpleFilter[T](Kernel[T](k)), nil
}

// Convolve builds a convolution filter from a flat weight buffer and
// its window. The buffer length must equal the window size.
func Convolve[T Number](weights []T, window Region) (*SimpleFilter[T], error) {
	if len(weights) != window.Size() {
		return nil, fmt.Errorf("%w: %d weights for window of size %d", ErrShapeMismatch, len(weights), window.Size())
	}
	k := &ConvolutionKernel[T]{weighted[T]{window: window, weights: append([]T(nil), weights...)}}
	return NewSimpleFilter[T](Kernel[T](k)), nil
}

// CorrelateRaster builds a correlation filter from a weight raster and
// the window position of its origin.
func CorrelateRaster[T Number](weights *Raster[T], origin Position) (*SimpleFilter[T], error) {
	return Correlate(weights.Data(), weights.Domain().Translate(origin.Negate()))
}

// ConvolveRaster builds a convolution filter from a weight raster and
// the window position of its origin.
func ConvolveRaster[T Number](weights *Raster[T], origin Position) (*SimpleFilter[T], error) {
	return Convolve(weights.Data(), weights.Domain().Translate(origin.Negate()))
}

// CorrelateCentered builds a correlation filter from a weight raster
// with an automatically centered origin; even lengths round the center
// down.
func CorrelateCentered[T Number](weights *Raster[T]) (*SimpleFilter[T], error) {
	return CorrelateRaster(weights, weights.Domain().Center())
}

// ConvolveCentered builds a convolution filter from a weight raster
// with an automatically centered origin; even lengths round the center
// down.
func ConvolveCentered[T Number](weights *Raster[T]) (*SimpleFilter[T], error) {
	return ConvolveRaster(weights, weights.Domain().Center())
}

// SparseConvolve builds a convolution filter whose window is the Mask
// of nonzero weights in the centered weight raster, skipping zero taps
// entirely.
func SparseConvolve[T Number](weights *Raster[T]) (*SimpleFilter[T], error) {
	window := weights.Domain().Translate(weights.Domain().Center().Negate())
	flags := NewRaster[bool](weights.Shape())
	kept := make([]T, 0, weights.Size())
	data := weights.Data()
	// Convolution reads taps in reversed window order; bake the
	// reversal into the retained weight sequence and flag positions
	// whose reversed tap is nonzero.
	for i := range data {
		if data[len(data)-1-i] != 0 {
			flags.Data()[i] = true
		}
	}
	mask, err := MaskFromFlags(window, flags)
	if err != nil {
		return nil, err
	}
	for i := range data {
		if flags.Data()[i] {
			kept = append(kept, data[len(data)-1-i])
		}
	}
	// The reversed taps pair with forward window order, so the kernel
	// is a correlation over the mask.
	k := &CorrelationKernel[T]{weighted[T]{window: mask, weights: kept}}
	return NewSimpleFilter[T](Kernel[T](k)), nil
}

// lineWindow returns the 1-D window of a centered kernel of the given
// length along axis, embedded in dim dimensions: the radius is
// length/2, rounded down.
func lineWindow(length, dim, axis int) Box {
	radius := length / 2
	front := NewPosition(dim)
	back := NewPosition(dim)
	front[axis] = -radius
	back[axis] = length - radius - 1
	return NewBox(front, back)
}

// CorrelateAlong replicates a 1-D correlation kernel along the given
// axes and composes the copies sequentially: the separable form of the
// outer-product ND kernel. Axes need not be distinct.
func CorrelateAlong[T Number](values []T, dim int, axes ...int) (Filter[T], error) {
	stages := make([]Filter[T], 0, len(axes))
	for _, axis := range axes {
		f, err := Correlate(values, lineWindow(len(values), dim, axis))
		if err != nil {
			return nil, err
		}
		stages = append(stages, f)
	}
	if len(stages) == 1 {
		return stages[0], nil
	}
	return Seq(stages...), nil
}

// ConvolveAlong replicates a 1-D convolution kernel along the given
// axes and composes the copies sequentially.
func ConvolveAlong[T Number](values []T, dim int, axes ...int) (Filter[T], error) {
	stages := make([]Filter[T], 0, len(axes))
	for _, axis := range axes {
		f, err := Convolve(values, lineWindow(len(values), dim, axis))
		if err != nil {
			return nil, err
		}
		stages = append(stages, f)
	}
	if len(stages) == 1 {
		return stages[0], nil
	}
	return Seq(stages...), nil
}

// gradient builds a derivative kernel {sign, 0, -sign} along the
// derivation axis composed with an averaging kernel on every other
// axis.
func gradient[T Number](averaging []T, dim, derivation int, sign T) (Filter[T], error) {
	derive, err := ConvolveAlong([]T{sign, 0, -sign}, dim, derivation)
	if err != nil {
		return nil, err
	}
	axes := make([]int, 0, dim-1)
	for i := 0; i < dim; i++ {
		if i != derivation {
			axes = append(axes, i)
		}
	}
	if len(axes) == 0 {
		return derive, nil
	}
	average, err := ConvolveAlong(averaging, dim, axes...)
	if err != nil {
		return nil, err
	}
	return Seq(derive, average), nil
}

// PrewittGradient differentiates along the derivation axis with kernel
// {sign, 0, -sign} while averaging {1, 1, 1} along the others. Keep
// sign = 1 to differentiate in the increasing-index direction, -1 for
// the opposite.
func PrewittGradient[T Number](dim, derivation int, sign T) (Filter[T], error) {
	return gradient([]T{1, 1, 1}, dim, derivation, sign)
}

// SobelGradient differentiates like PrewittGradient with averaging
// kernel {1, 2, 1}.
func SobelGradient[T Number](dim, derivation int, sign T) (Filter[T], error) {
	return gradient([]T{1, 2, 1}, dim, derivation, sign)
}

// ScharrGradient differentiates like PrewittGradient with averaging
// kernel {3, 10, 3}.
func ScharrGradient[T Number](dim, derivation int, sign T) (Filter[T], error) {
	return gradient([]T{3, 10, 3}, dim, derivation, sign)
}

// LaplaceOperator sums 1-D second differences {sign, -2*sign, sign}
// across every axis.
func LaplaceOperator[T Number](dim int, sign T) (Filter[T], error) {
	branches := make([]Filter[T], 0, dim)
	for axis := 0; axis < dim; axis++ {
		f, err := ConvolveAlong([]T{sign, 0 - 2*sign, sign}, dim, axis)
		if err != nil {
			return nil, err
		}
		branches = append(branches, f)
	}
	return Agg(func(a, b T) T { return a + b }, branches...), nil
}

// MeanFilter builds a mean filter over the given structuring element.
func MeanFilter[T Number](window Region) *SimpleFilter[T] {
	return NewSimpleFilter[T](Kernel[T](&MeanKernel[T]{window: window}))
}

// MedianFilter builds a median filter over the given structuring
// element.
func MedianFilter[T Number](window Region) *SimpleFilter[T] {
	return NewSimpleFilter[T](Kernel[T](&MedianKernel[T]{window: window}))
}

// MinimumFilter builds a minimum filter over the given structuring
// element.
func MinimumFilter[T Number](window Region) *SimpleFilter[T] {
	return NewSimpleFilter[T](Kernel[T](&MinimumKernel[T]{window: window}))
}

// MaximumFilter builds a maximum filter over the given structuring
// element.
func MaximumFilter[T Number](window Region) *SimpleFilter[T] {
	return NewSimpleFilter[T](Kernel[T](&MaximumKernel[T]{window: window}))
}

// Erosion builds a binary erosion filter over the given structuring
// element: the boolean minimum with a false-center short-circuit.
func Erosion(window Region) *SimpleFilter[bool] {
	return NewSimpleFilter[bool](Kernel[bool](&ErosionKernel{window: window}))
}

// Dilation builds a binary dilation filter over the given structuring
// element: the boolean maximum with a true-center short-circuit.
func Dilation(window Region) *SimpleFilter[bool] {
	return NewSimpleFilter[bool](Kernel[bool](&DilationKernel{window: window}))
}

// GaussianKernel1D generates a normalized 1-D Gaussian weight sequence
// with standard deviation sigma, truncated at three sigmas. sigma <= 0
// yields the identity kernel {1}.
func GaussianKernel1D(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	half := int(math.Ceil(sigma * 3))
	size := half*2 + 1
	kernel := make([]float64, size)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		kernel[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// BoxKernel1D generates a uniform 1-D weight sequence of the given
// radius, summing to one.
func BoxKernel1D(radius int) []float64 {
	if radius <= 0 {
		return []float64{1}
	}
	size := radius*2 + 1
	kernel := make([]float64, size)
	for i := range kernel {
		kernel[i] = 1 / float64(size)
	}
	return kernel
}

// GaussianFilter builds a separable Gaussian smoothing filter of the
// given standard deviation over every axis.
func GaussianFilter(dim int, sigma float64) (Filter[float64], error) {
	axes := make([]int, dim)
	for i := range axes {
		axes[i] = i
	}
	return ConvolveAlong(GaussianKernel1D(sigma), dim, axes...)
}
