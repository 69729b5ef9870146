package kraster

import (
	"errors"
	"fmt"
)

// Raster errors.
var (
	// ErrShapeMismatch is returned when a buffer or flag raster does not
	// match the expected shape.
	ErrShapeMismatch = errors.New("kraster: shape mismatch")

	// ErrDimensionMismatch is returned when operand dimensions differ.
	ErrDimensionMismatch = errors.New("kraster: dimension mismatch")
)

// Raster is a dense ND array of T addressed by Position. Storage is a
// single contiguous buffer in row-major order: the last axis varies
// fastest, and the linear offset of a position is its dot product with
// the row-major strides.
//
// The domain is zero-fronted: positions run from the origin to
// shape - 1. At and Index perform no bounds checking; reading outside
// the domain is undefined (it may panic or alias another cell). Callers
// that need out-of-domain values wrap the raster with Extrapolate.
type Raster[T any] struct {
	shape   Position
	strides []int
	data    []T
}

// NewRaster allocates a zero-valued raster of the given shape. A shape
// with any non-positive length yields a valid size-0 raster, so empty
// boxes (for instance from a disjoint intersection) map to empty
// rasters rather than panicking.
func NewRaster[T any](shape Position) *Raster[T] {
	size := 1
	for _, s := range shape {
		if s <= 0 {
			size = 0
			break
		}
		size *= s
	}
	return &Raster[T]{
		shape:   shape.Clone(),
		strides: rowMajorStrides(shape),
		data:    make([]T, size),
	}
}

// RasterFromSlice wraps an existing buffer as a raster of the given
// shape without copying. The buffer length must equal the shape volume.
// The raster borrows the buffer: later writes through either alias.
func RasterFromSlice[T any](shape Position, data []T) (*Raster[T], error) {
	size := 1
	for _, s := range shape {
		size *= s
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: buffer length %d, shape volume %d", ErrShapeMismatch, len(data), size)
	}
	return &Raster[T]{
		shape:   shape.Clone(),
		strides: rowMajorStrides(shape),
		data:    data,
	}, nil
}

func rowMajorStrides(shape Position) []int {
	n := len(shape)
	strides := make([]int, n)
	if n == 0 {
		return strides
	}
	strides[n-1] = 1
	for i := n - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * shape[i+1]
	}
	return strides
}

// Shape returns the per-axis lengths.
func (r *Raster[T]) Shape() Position { return r.shape }

// Dimension returns the number of axes.
func (r *Raster[T]) Dimension() int { return len(r.shape) }

// Size returns the number of cells.
func (r *Raster[T]) Size() int { return len(r.data) }

// Domain returns the zero-fronted bounding box of the raster.
func (r *Raster[T]) Domain() Box { return BoxFromShape(r.shape) }

// Contains reports whether p lies inside the stored domain.
func (r *Raster[T]) Contains(p Position) bool {
	for i := range r.shape {
		if p[i] < 0 || p[i] >= r.shape[i] {
			return false
		}
	}
	return true
}

// Index returns the linear offset of p. No bounds check.
func (r *Raster[T]) Index(p Position) int {
	idx := 0
	for i, c := range p {
		idx += c * r.strides[i]
	}
	return idx
}

// At returns the value at p. No bounds check.
func (r *Raster[T]) At(p Position) T { return r.data[r.Index(p)] }

// Set writes the value at p. No bounds check.
func (r *Raster[T]) Set(p Position, v T) { r.data[r.Index(p)] = v }

// Data exposes the backing buffer, in row-major position order.
func (r *Raster[T]) Data() []T { return r.data }

// Fill sets every cell to v.
func (r *Raster[T]) Fill(v T) {
	for i := range r.data {
		r.data[i] = v
	}
}

// Clone returns a deep copy owning its own buffer.
func (r *Raster[T]) Clone() *Raster[T] {
	out := &Raster[T]{
		shape:   r.shape.Clone(),
		strides: append([]int(nil), r.strides...),
		data:    make([]T, len(r.data)),
	}
	copy(out.data, r.data)
	return out
}

// Patch returns a non-owning view over the given window of the raster.
// The window must be contained in the domain.
func (r *Raster[T]) Patch(window Box) (*Patch[T], error) {
	if !r.Domain().Contains(window.Front()) || !r.Domain().Contains(window.Back()) {
		return nil, fmt.Errorf("kraster: patch window %v..%v outside domain", window.Front(), window.Back())
	}
	return &Patch[T]{parent: r, window: window}, nil
}

// Range fills the raster with consecutive values starting at zero, in
// row-major order. Handy for tests and indexing experiments.
func Range[T Number](r *Raster[T]) *Raster[T] {
	for i := range r.data {
		r.data[i] = fromFloat[T](float64(i))
	}
	return r
}

// Patch is a window into a parent raster sharing its storage. A patch
// is a borrow, not an owner: it must not outlive the parent, and it is
// invalidated if the parent's buffer is reallocated.
type Patch[T any] struct {
	parent *Raster[T]
	window Box
}

// Window returns the patch bounds, in parent coordinates.
func (p *Patch[T]) Window() Box { return p.window }

// Parent returns the owning raster.
func (p *Patch[T]) Parent() *Raster[T] { return p.parent }

// At reads through to the parent at absolute position pos.
func (p *Patch[T]) At(pos Position) T { return p.parent.At(pos) }

// Set writes through to the parent at absolute position pos.
func (p *Patch[T]) Set(pos Position, v T) { p.parent.Set(pos, v) }

// Copy materializes the patch into a raster owning its own buffer,
// re-fronted at the origin.
func (p *Patch[T]) Copy() *Raster[T] {
	out := NewRaster[T](p.window.Shape())
	front := p.window.Front()
	q := make(Position, len(front))
	for pos := range p.window.Positions() {
		for i := range q {
			q[i] = pos[i] - front[i]
		}
		out.Set(q, p.parent.At(pos))
	}
	return out
}
