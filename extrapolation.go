package kraster

// Source is the read-only contract filters and resamplers consume. A
// bare Raster satisfies it with unchecked access: reading outside its
// domain is undefined. Wrapping with Extrapolate yields a Source whose
// reads are well defined everywhere.
type Source[T any] interface {
	// Dimension returns the number of axes.
	Dimension() int
	// Domain returns the stored bounding box.
	Domain() Box
	// At returns the value at p.
	At(p Position) T
}

// Extrapolation maps an out-of-domain integer position to a value, so
// that windowed operators can run over the full domain instead of
// shrinking away from the edges.
type Extrapolation[T any] interface {
	// At returns the value at p, which may lie outside the raster.
	At(r *Raster[T], p Position) T
}

// Constant extrapolation returns a fixed value for any out-of-domain
// position (Dirichlet boundary conditions).
type Constant[T any] struct {
	Value T
}

// At returns the raster value inside the domain, Value outside.
func (c Constant[T]) At(r *Raster[T], p Position) T {
	if r.Contains(p) {
		return r.At(p)
	}
	return c.Value
}

// Nearest extrapolation clamps an out-of-domain position to the nearest
// in-domain one (zero-flux Neumann boundary conditions).
type Nearest[T any] struct{}

// At returns the value at the clamped position.
func (Nearest[T]) At(r *Raster[T], p Position) T {
	q := make(Position, len(p))
	for i, c := range p {
		q[i] = min(max(c, 0), r.Shape()[i]-1)
	}
	return r.At(q)
}

// Periodic extrapolation wraps an out-of-domain position modulo the
// domain shape, using the positive-modulo convention: the wrapped
// coordinate always falls in [0, shape).
type Periodic[T any] struct{}

// At returns the value at the wrapped position.
func (Periodic[T]) At(r *Raster[T], p Position) T {
	q := make(Position, len(p))
	for i, c := range p {
		m := c % r.Shape()[i]
		if m < 0 {
			m += r.Shape()[i]
		}
		q[i] = m
	}
	return r.At(q)
}

// Extrapolated is a raster wrapped in an extrapolation policy. It
// satisfies Source with reads defined at every integer position; its
// Domain remains the raster's stored domain.
type Extrapolated[T any] struct {
	raster *Raster[T]
	policy Extrapolation[T]
}

// Extrapolate wraps a raster so that out-of-domain reads go through the
// given policy.
func Extrapolate[T any](r *Raster[T], policy Extrapolation[T]) *Extrapolated[T] {
	return &Extrapolated[T]{raster: r, policy: policy}
}

// Raster returns the wrapped raster.
func (e *Extrapolated[T]) Raster() *Raster[T] { return e.raster }

// Dimension returns the number of axes.
func (e *Extrapolated[T]) Dimension() int { return e.raster.Dimension() }

// Domain returns the stored domain of the wrapped raster.
func (e *Extrapolated[T]) Domain() Box { return e.raster.Domain() }

// At returns the stored value inside the domain and the policy value
// outside it.
func (e *Extrapolated[T]) At(p Position) T { return e.policy.At(e.raster, p) }
