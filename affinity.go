package kraster

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular reports a non-invertible affine map.
var ErrSingular = errors.New("kraster: affinity is not invertible")

// Affinity is an affine geometrical transform in real coordinates,
// expressed relative to a center c:
//
//	y = b + c + M * (x - c)
//
// The center lets rotations and scalings pivot around an arbitrary
// point (typically the middle of a raster) without composing
// translations by hand.
type Affinity struct {
	m *mat.Dense
	b *mat.VecDense
	c *mat.VecDense
}

// NewAffinity returns the identity transform of the given dimension,
// centered on c. A nil center means the origin.
func NewAffinity(dim int, center Vector) *Affinity {
	a := &Affinity{
		m: mat.NewDense(dim, dim, nil),
		b: mat.NewVecDense(dim, nil),
		c: mat.NewVecDense(dim, nil),
	}
	for i := 0; i < dim; i++ {
		a.m.Set(i, i, 1)
	}
	if center != nil {
		for i, v := range center {
			a.c.SetVec(i, v)
		}
	}
	return a
}

// Dimension returns the number of axes.
func (a *Affinity) Dimension() int {
	r, _ := a.m.Dims()
	return r
}

// Translate adds the given offset to the translation part.
func (a *Affinity) Translate(offset Vector) *Affinity {
	for i, v := range offset {
		a.b.SetVec(i, a.b.AtVec(i)+v)
	}
	return a
}

// TranslateScalar adds the same offset along every axis.
func (a *Affinity) TranslateScalar(offset float64) *Affinity {
	for i := 0; i < a.b.Len(); i++ {
		a.b.SetVec(i, a.b.AtVec(i)+offset)
	}
	return a
}

// Scale multiplies the linear part by the same factor along every axis.
func (a *Affinity) Scale(factor float64) *Affinity {
	a.m.Scale(factor, a.m)
	return a
}

// ScaleVector composes a per-axis scaling. Like every builder op it
// right-multiplies into the linear part: the most recently composed op
// applies first to the input.
func (a *Affinity) ScaleVector(factors Vector) *Affinity {
	dim := a.Dimension()
	d := mat.NewDense(dim, dim, nil)
	for i, f := range factors {
		d.Set(i, i, f)
	}
	a.m.Mul(a.m, d)
	return a
}

// ScaleInverse divides the linear part by the same factor along every
// axis: the inverse of Scale with the same argument.
func (a *Affinity) ScaleInverse(factor float64) *Affinity {
	return a.Scale(1 / factor)
}

// ScaleVectorInverse divides the linear part by a per-axis factor.
func (a *Affinity) ScaleVectorInverse(factors Vector) *Affinity {
	inv := make(Vector, len(factors))
	for i, f := range factors {
		inv[i] = 1 / f
	}
	return a.ScaleVector(inv)
}

// Rotate composes a rotation of the given angle in radians, in the
// plane spanned by the two axes, turning axis from toward axis to.
func (a *Affinity) Rotate(angle float64, from, to int) *Affinity {
	dim := a.Dimension()
	r := mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		r.Set(i, i, 1)
	}
	sin, cos := math.Sincos(angle)
	r.Set(from, from, cos)
	r.Set(from, to, -sin)
	r.Set(to, from, sin)
	r.Set(to, to, cos)
	a.m.Mul(a.m, r)
	return a
}

// RotateDegrees composes a rotation given in degrees.
func (a *Affinity) RotateDegrees(angle float64, from, to int) *Affinity {
	return a.Rotate(angle*math.Pi/180, from, to)
}

// Inverse returns the inverse transform, sharing the center, or
// ErrSingular when the linear part cannot be inverted.
func (a *Affinity) Inverse() (*Affinity, error) {
	dim := a.Dimension()
	inv := NewAffinity(dim, nil)
	if err := inv.m.Inverse(a.m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	// y = b + c + M(x - c)  =>  x = -M^-1 b + c + M^-1 (y - c)
	var mb mat.VecDense
	mb.MulVec(inv.m, a.b)
	for i := 0; i < dim; i++ {
		inv.b.SetVec(i, -mb.AtVec(i))
		inv.c.SetVec(i, a.c.AtVec(i))
	}
	return inv, nil
}

// Apply maps a real position through the transform.
func (a *Affinity) Apply(x Vector) Vector {
	dim := a.Dimension()
	d := mat.NewVecDense(dim, nil)
	for i, v := range x {
		d.SetVec(i, v-a.c.AtVec(i))
	}
	var md mat.VecDense
	md.MulVec(a.m, d)
	out := NewVector(dim)
	for i := range out {
		out[i] = a.b.AtVec(i) + a.c.AtVec(i) + md.AtVec(i)
	}
	return out
}

// Transform resamples an interpolated source through the transform,
// filling the whole output raster: each output position is pulled from
// the source at the inverse-mapped coordinates. Returns ErrSingular
// when the transform cannot be inverted.
func Transform[T Number](a *Affinity, src *Interp[T], out *Raster[T], opts ...ApplyOption) error {
	inv, err := a.Inverse()
	if err != nil {
		return err
	}
	cfg := newApplyConfig(opts)
	chunks := slabs(out.Domain(), cfg.workers)
	Logger().Debug("kraster: transform",
		"shape", out.Shape(),
		"workers", cfg.workers,
		"slabs", len(chunks))
	tasks := make([]func(), len(chunks))
	for i, slab := range chunks {
		tasks[i] = func() {
			x := NewVector(out.Dimension())
			for p := range slab.Positions() {
				for i, v := range p {
					x[i] = float64(v)
				}
				out.Set(p, src.Sample(inv.Apply(x)))
			}
		}
	}
	cfg.run(tasks)
	return nil
}

// rasterCenter returns the midpoint of a raster domain in real
// coordinates.
func rasterCenter[T Number](r *Raster[T]) Vector {
	c := NewVector(r.Dimension())
	for i, n := range r.Shape() {
		c[i] = float64(n-1) / 2
	}
	return c
}

// ScaleRaster resamples a raster scaled by the given factor about its
// center into out, which fixes the output shape.
func ScaleRaster[T Number](in *Interp[T], out *Raster[T], factor float64, opts ...ApplyOption) error {
	a := NewAffinity(out.Dimension(), rasterCenter(out)).Scale(factor)
	return Transform(a, in, out, opts...)
}

// RotateRaster resamples a raster rotated by the given angle in degrees
// about its center, in the plane of the two axes, into out.
func RotateRaster[T Number](in *Interp[T], out *Raster[T], angle float64, from, to int, opts ...ApplyOption) error {
	a := NewAffinity(out.Dimension(), rasterCenter(out)).RotateDegrees(angle, from, to)
	return Transform(a, in, out, opts...)
}

// Upsample resamples a raster on a grid refined by an integer factor
// along every axis, about the origin, so input samples land on output
// samples.
func Upsample[T Number](in *Interp[T], factor int, opts ...ApplyOption) (*Raster[T], error) {
	shape := in.Domain().Shape()
	for i := range shape {
		shape[i] = (shape[i]-1)*factor + 1
	}
	out := NewRaster[T](shape)
	a := NewAffinity(len(shape), nil).Scale(float64(factor))
	if err := Transform(a, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Downsample resamples a raster on a grid coarsened by an integer
// factor along every axis, about the origin.
func Downsample[T Number](in *Interp[T], factor int, opts ...ApplyOption) (*Raster[T], error) {
	shape := in.Domain().Shape()
	for i := range shape {
		shape[i] = (shape[i]-1)/factor + 1
	}
	out := NewRaster[T](shape)
	a := NewAffinity(len(shape), nil).Scale(1 / float64(factor))
	if err := Transform(a, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
