package kraster

// Kernel is the per-window capability a filter is built from: a window
// region supplying neighbor offsets, and a reduction of the neighbor
// values to one output value. Apply may reorder or overwrite the
// neighbors slice, which is a scratch buffer refilled at every
// position.
type Kernel[T any] interface {
	// Window returns the neighbor offsets, relative to the evaluated
	// position.
	Window() Region
	// Apply reduces the neighbor values, listed in window order.
	Apply(neighbors []T) T
}

// shortCircuiter is implemented by kernels whose output is fully
// determined by the center value for some inputs, so the neighborhood
// fetch can be skipped (binary erosion around false centers, dilation
// around true ones).
type shortCircuiter[T any] interface {
	shortCircuit(center T) (T, bool)
}

// Filter evaluates a windowed function at every position of an output
// domain. Implementations are SimpleFilter (one kernel), FilterSeq
// (sequential composition along axes) and FilterAgg (parallel
// composition with a reducer).
type Filter[T any] interface {
	// Window returns the combined neighbor region: applying the filter
	// at position p reads src between p+Window().Bounds().Front() and
	// p+Window().Bounds().Back().
	Window() Region
	// To evaluates the filter at every position p of domain, reading
	// neighbors from src and writing the result to out at p - origin.
	// Each output cell is written exactly once.
	To(out *Raster[T], origin Position, src Source[T], domain Box, opts ...ApplyOption)
}

// Apply runs a filter over the full stored domain of src and returns a
// raster of the same shape. Whenever the window reaches outside the
// domain, src must extrapolate; pass a bare raster only together with
// ApplyCrop-style shrunken domains.
func Apply[T any](f Filter[T], src Source[T], opts ...ApplyOption) *Raster[T] {
	domain := src.Domain()
	out := NewRaster[T](domain.Shape())
	f.To(out, domain.Front(), src, domain, opts...)
	return out
}

// ApplyCrop runs a filter over the interior of r: the output domain is
// shrunk by the window bounds so that every neighbor read stays inside
// the stored domain and no boundary policy is needed.
func ApplyCrop[T any](f Filter[T], r *Raster[T], opts ...ApplyOption) *Raster[T] {
	w := f.Window().Bounds()
	domain := NewBox(
		r.Domain().Front().Minus(w.Front()),
		r.Domain().Back().Minus(w.Back()),
	)
	out := NewRaster[T](domain.Shape())
	f.To(out, domain.Front(), r, domain, opts...)
	return out
}

// SimpleFilter wraps one kernel. Applying it iterates the output
// domain, gathers the neighborhood at each position and writes the
// kernel result.
type SimpleFilter[T any] struct {
	kernel  Kernel[T]
	offsets []Position
}

// NewSimpleFilter builds a filter from a kernel, caching the window
// offsets for the position loop.
func NewSimpleFilter[T any](k Kernel[T]) *SimpleFilter[T] {
	return &SimpleFilter[T]{kernel: k, offsets: collect(k.Window())}
}

// Kernel returns the wrapped kernel.
func (f *SimpleFilter[T]) Kernel() Kernel[T] { return f.kernel }

// Window returns the kernel window.
func (f *SimpleFilter[T]) Window() Region { return f.kernel.Window() }

// To evaluates the kernel at every position of domain.
func (f *SimpleFilter[T]) To(out *Raster[T], origin Position, src Source[T], domain Box, opts ...ApplyOption) {
	cfg := newApplyConfig(opts)
	chunks := slabs(domain, cfg.workers)
	Logger().Debug("kraster: filter",
		"domain", domain.Shape(),
		"window", f.kernel.Window().Size(),
		"workers", cfg.workers,
		"slabs", len(chunks))
	if len(chunks) <= 1 {
		f.evalSlab(out, origin, src, domain)
		return
	}
	tasks := make([]func(), len(chunks))
	for i, slab := range chunks {
		tasks[i] = func() {
			f.evalSlab(out, origin, cloneForWorker(src), slab)
		}
	}
	cfg.run(tasks)
}

// evalSlab runs the position loop over one slab of the output domain,
// with worker-local scratch buffers.
func (f *SimpleFilter[T]) evalSlab(out *Raster[T], origin Position, src Source[T], slab Box) {
	dim := slab.Dimension()
	neighbors := make([]T, len(f.offsets))
	q := make(Position, dim)
	rel := make(Position, dim)
	sc, shifts := f.kernel.(shortCircuiter[T])
	for p := range slab.Positions() {
		for i := range rel {
			rel[i] = p[i] - origin[i]
		}
		if shifts {
			if v, ok := sc.shortCircuit(src.At(p)); ok {
				out.Set(rel, v)
				continue
			}
		}
		for j, o := range f.offsets {
			for i := range q {
				q[i] = p[i] + o[i]
			}
			neighbors[j] = src.At(q)
		}
		out.Set(rel, f.kernel.Apply(neighbors))
	}
}

// FilterSeq composes filters sequentially: each stage consumes the
// previous stage's output. A separable ND kernel expressed as a
// sequence of 1-D kernels costs O(N*L) per cell instead of O(L^N).
// Intermediate buffers are dilated so every stage finds the neighbors
// the next one needs, and each buffer is fully materialized before
// the next stage starts.
type FilterSeq[T any] struct {
	stages []Filter[T]
}

// Seq composes the given filters in application order.
func Seq[T any](stages ...Filter[T]) *FilterSeq[T] {
	flat := make([]Filter[T], 0, len(stages))
	for _, s := range stages {
		if inner, ok := s.(*FilterSeq[T]); ok {
			flat = append(flat, inner.stages...)
			continue
		}
		flat = append(flat, s)
	}
	return &FilterSeq[T]{stages: flat}
}

// Stages returns the composed filters in application order.
func (s *FilterSeq[T]) Stages() []Filter[T] { return s.stages }

// Window returns the Minkowski sum of the stage windows.
func (s *FilterSeq[T]) Window() Region {
	w := s.stages[0].Window().Bounds()
	front := w.Front().Clone()
	back := w.Back().Clone()
	for _, stage := range s.stages[1:] {
		b := stage.Window().Bounds()
		front = front.Plus(b.Front())
		back = back.Plus(b.Back())
	}
	return NewBox(front, back)
}

// To evaluates the composition over domain. Stage i is evaluated over
// domain dilated by the windows of the remaining stages, so that the
// final stage finds every neighbor it asks for.
func (s *FilterSeq[T]) To(out *Raster[T], origin Position, src Source[T], domain Box, opts ...ApplyOption) {
	last := len(s.stages) - 1
	domains := make([]Box, len(s.stages))
	domains[last] = domain
	for i := last - 1; i >= 0; i-- {
		w := s.stages[i+1].Window().Bounds()
		domains[i] = NewBox(
			domains[i+1].Front().Plus(w.Front()),
			domains[i+1].Back().Plus(w.Back()),
		)
	}
	cur := src
	for i := 0; i < last; i++ {
		buf := NewRaster[T](domains[i].Shape())
		s.stages[i].To(buf, domains[i].Front(), cur, domains[i], opts...)
		cur = &frame[T]{raster: buf, origin: domains[i].Front()}
	}
	s.stages[last].To(out, origin, cur, domain, opts...)
}

// FilterAgg composes filters in parallel: each branch is applied
// independently to the same input and the per-cell outputs are
// combined with a binary reducer, position-wise.
type FilterAgg[T any] struct {
	reduce   func(T, T) T
	branches []Filter[T]
}

// Agg aggregates the given filters with a binary reducer.
func Agg[T any](reduce func(T, T) T, branches ...Filter[T]) *FilterAgg[T] {
	return &FilterAgg[T]{reduce: reduce, branches: branches}
}

// Branches returns the aggregated filters.
func (a *FilterAgg[T]) Branches() []Filter[T] { return a.branches }

// Window returns the bounding box of the branch windows.
func (a *FilterAgg[T]) Window() Region {
	w := a.branches[0].Window().Bounds()
	front := w.Front().Clone()
	back := w.Back().Clone()
	for _, br := range a.branches[1:] {
		b := br.Window().Bounds()
		front = front.Min(b.Front())
		back = back.Max(b.Back())
	}
	return NewBox(front, back)
}

// To evaluates every branch over domain and reduces position-wise.
func (a *FilterAgg[T]) To(out *Raster[T], origin Position, src Source[T], domain Box, opts ...ApplyOption) {
	a.branches[0].To(out, origin, src, domain, opts...)
	if len(a.branches) == 1 {
		return
	}
	tmp := NewRaster[T](domain.Shape())
	rel := make(Position, domain.Dimension())
	sub := make(Position, domain.Dimension())
	for _, br := range a.branches[1:] {
		br.To(tmp, domain.Front(), src, domain, opts...)
		for p := range domain.Positions() {
			for i := range rel {
				rel[i] = p[i] - origin[i]
				sub[i] = p[i] - domain.Front()[i]
			}
			out.Set(rel, a.reduce(out.At(rel), tmp.At(sub)))
		}
	}
}

// frame adapts a zero-fronted intermediate raster to the absolute
// coordinates of the stage domain it was computed over.
type frame[T any] struct {
	raster *Raster[T]
	origin Position
	buf    Position
}

func (f *frame[T]) Dimension() int { return f.raster.Dimension() }

func (f *frame[T]) Domain() Box { return f.raster.Domain().Translate(f.origin) }

func (f *frame[T]) At(p Position) T {
	if f.buf == nil {
		f.buf = make(Position, len(p))
	}
	for i := range p {
		f.buf[i] = p[i] - f.origin[i]
	}
	return f.raster.At(f.buf)
}

// cloneSource gives each worker its own coordinate scratch.
func (f *frame[T]) cloneSource() Source[T] {
	return &frame[T]{raster: f.raster, origin: f.origin}
}

// cloneForWorker duplicates sources that carry per-call scratch state;
// stateless sources (rasters, extrapolators) are shared as-is.
func cloneForWorker[T any](s Source[T]) Source[T] {
	if c, ok := s.(interface{ cloneSource() Source[T] }); ok {
		return c.cloneSource()
	}
	return s
}
