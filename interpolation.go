package kraster

import "math"

// InterpMethod selects how fractional positions are sampled.
type InterpMethod uint8

const (
	// NearestInterp rounds each coordinate to the nearest integer, ties
	// away from zero, then looks the position up.
	NearestInterp InterpMethod = iota

	// LinearInterp interpolates linearly between the two adjacent taps
	// per axis, collapsing the last axis first and recursing on the
	// rest. The two taps per axis must resolve, so near edges the
	// source must extrapolate.
	LinearInterp

	// CubicInterp applies Catmull-Rom 4-tap cubic interpolation per
	// axis, combined across axes exactly like LinearInterp. It needs
	// two taps on either side.
	CubicInterp
)

// String returns a human-readable name for the method.
func (m InterpMethod) String() string {
	switch m {
	case NearestInterp:
		return "Nearest"
	case LinearInterp:
		return "Linear"
	case CubicInterp:
		return "Cubic"
	default:
		return "Unknown"
	}
}

// Interp samples a source at fractional positions. Integer positions
// read through unchanged; Sample evaluates the interpolation method at
// a real-valued position. If positions outside the source's stored
// domain can be requested, wrap the raster with Extrapolate first.
type Interp[T Number] struct {
	src    Source[T]
	method InterpMethod
}

// Interpolate wraps a source with the given interpolation method.
func Interpolate[T Number](src Source[T], method InterpMethod) *Interp[T] {
	return &Interp[T]{src: src, method: method}
}

// Dimension returns the number of axes.
func (ip *Interp[T]) Dimension() int { return ip.src.Dimension() }

// Domain returns the stored domain of the underlying source.
func (ip *Interp[T]) Domain() Box { return ip.src.Domain() }

// At returns the value at an integer position.
func (ip *Interp[T]) At(p Position) T { return ip.src.At(p) }

// Sample returns the interpolated value at the real-valued position v.
func (ip *Interp[T]) Sample(v Vector) T {
	idx := make(Position, len(v))
	switch ip.method {
	case LinearInterp:
		return fromFloat[T](ip.linear(v, idx, len(v)-1))
	case CubicInterp:
		return fromFloat[T](ip.cubic(v, idx, len(v)-1))
	default:
		for i, c := range v {
			idx[i] = int(math.Round(c))
		}
		return ip.src.At(idx)
	}
}

// linear collapses axis by axis from the back: the last axis is
// interpolated first with all others fixed, then the recursion fixes
// the floor and ceil taps of the previous axis.
func (ip *Interp[T]) linear(v Vector, idx Position, axis int) float64 {
	f := int(math.Floor(v[axis]))
	d := v[axis] - float64(f)
	if axis == 0 {
		idx[0] = f
		p := toFloat(ip.src.At(idx))
		idx[0] = f + 1
		n := toFloat(ip.src.At(idx))
		return d*(n-p) + p
	}
	idx[axis] = f
	p := ip.linear(v, idx, axis-1)
	idx[axis] = f + 1
	n := ip.linear(v, idx, axis-1)
	return d*(n-p) + p
}

func (ip *Interp[T]) cubic(v Vector, idx Position, axis int) float64 {
	f := int(math.Floor(v[axis]))
	d := v[axis] - float64(f)
	var pp, p, n, nn float64
	if axis == 0 {
		idx[0] = f - 1
		pp = toFloat(ip.src.At(idx))
		idx[0] = f
		p = toFloat(ip.src.At(idx))
		idx[0] = f + 1
		n = toFloat(ip.src.At(idx))
		idx[0] = f + 2
		nn = toFloat(ip.src.At(idx))
	} else {
		idx[axis] = f - 1
		pp = ip.cubic(v, idx, axis-1)
		idx[axis] = f
		p = ip.cubic(v, idx, axis-1)
		idx[axis] = f + 1
		n = ip.cubic(v, idx, axis-1)
		idx[axis] = f + 2
		nn = ip.cubic(v, idx, axis-1)
	}
	return p + 0.5*(d*(-pp+n)+d*d*(2*pp-5*p+4*n-nn)+d*d*d*(-pp+3*p-3*n+nn))
}
