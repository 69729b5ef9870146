package kraster

import (
	"math"
	"testing"
)

func centeredBox(dim, radius int) Box {
	return NewBox(FullPosition(dim, -radius), FullPosition(dim, radius))
}

func TestMeanFilterConstantBoundary(t *testing.T) {
	// A single 9 in the middle of zeros: the 3x3 mean spreads it as 1
	// over the 3x3 neighborhood, with zero boundary.
	r := NewRaster[float64](Position{5, 5})
	r.Set(Position{2, 2}, 9)
	f := MeanFilter[float64](centeredBox(2, 1))

	out := Apply[float64](f, Extrapolate(r, Constant[float64]{}))
	if !out.Shape().Eq(r.Shape()) {
		t.Fatalf("shape = %v", out.Shape())
	}
	for p := range out.Domain().Positions() {
		want := 0.0
		if p[0] >= 1 && p[0] <= 3 && p[1] >= 1 && p[1] <= 3 {
			want = 1
		}
		if got := out.At(p); math.Abs(got-want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestMeanFilterCornerWeights(t *testing.T) {
	// 3x3 mean of all ones with zero boundary: the corner sees only
	// four in-domain taps, so it gets 4/9.
	r := NewRaster[float64](Position{3, 3})
	r.Fill(1)
	f := MeanFilter[float64](centeredBox(2, 1))
	out := Apply[float64](f, Extrapolate(r, Constant[float64]{}))

	if got := out.At(Position{1, 1}); math.Abs(got-1) > 1e-12 {
		t.Errorf("center = %v, want 1", got)
	}
	if got := out.At(Position{0, 0}); math.Abs(got-4.0/9) > 1e-12 {
		t.Errorf("corner = %v, want 4/9", got)
	}
	if got := out.At(Position{0, 1}); math.Abs(got-6.0/9) > 1e-12 {
		t.Errorf("edge = %v, want 6/9", got)
	}
}

func TestApplyCropShrinksDomain(t *testing.T) {
	r := Range(NewRaster[float64](Position{5, 5}))
	f := MeanFilter[float64](centeredBox(2, 1))

	out := ApplyCrop[float64](f, r)
	if !out.Shape().Eq(Position{3, 3}) {
		t.Fatalf("shape = %v, want [3 3]", out.Shape())
	}
	// The mean of a 3x3 block of the ramp is its center value.
	for p := range out.Domain().Positions() {
		center := r.At(p.PlusScalar(1))
		if got := out.At(p); math.Abs(got-center) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", p, got, center)
		}
	}
}

func TestApplyCropOversizedWindowIsEmpty(t *testing.T) {
	// A window wider than the raster leaves no interior: the cropped
	// output is a valid size-0 raster.
	r := Range(NewRaster[float64](Position{3, 3}))
	f := MeanFilter[float64](centeredBox(2, 2))

	out := ApplyCrop[float64](f, r)
	if out.Size() != 0 {
		t.Fatalf("Size = %d, want 0", out.Size())
	}
	if !out.Domain().Empty() {
		t.Fatal("oversized-window crop has a non-empty domain")
	}
}

func TestApplyParallelMatchesSequential(t *testing.T) {
	r := Range(NewRaster[float64](Position{16, 16}))
	f := MeanFilter[float64](centeredBox(2, 1))
	src := Extrapolate(r, Nearest[float64]{})

	seq := Apply[float64](f, src)
	par := Apply[float64](f, src, WithWorkers(4))
	for i, v := range seq.Data() {
		if par.Data()[i] != v {
			t.Fatalf("cell %d: parallel %v, sequential %v", i, par.Data()[i], v)
		}
	}
}

func TestApplyOnPoolMatchesSequential(t *testing.T) {
	r := Range(NewRaster[float64](Position{16, 16}))
	f := MeanFilter[float64](centeredBox(2, 1))
	src := Extrapolate(r, Nearest[float64]{})

	pool := NewWorkerPool(4)
	defer pool.Close()
	if pool.Workers() != 4 {
		t.Fatalf("Workers = %d, want 4", pool.Workers())
	}

	seq := Apply[float64](f, src)
	// Reuse the pool across calls.
	for i := 0; i < 3; i++ {
		got := Apply[float64](f, src, WithPool(pool))
		for j, v := range seq.Data() {
			if got.Data()[j] != v {
				t.Fatalf("run %d, cell %d: pooled %v, sequential %v", i, j, got.Data()[j], v)
			}
		}
	}
}

func TestFilterSeqSeparableMean(t *testing.T) {
	// A 3x1 mean then a 1x3 mean equals the 3x3 mean.
	r := Range(NewRaster[float64](Position{8, 8}))
	src := Extrapolate(r, Nearest[float64]{})

	full := Apply[float64](MeanFilter[float64](centeredBox(2, 1)), src)

	rows := MeanFilter[float64](NewBox(Position{-1, 0}, Position{1, 0}))
	cols := MeanFilter[float64](NewBox(Position{0, -1}, Position{0, 1}))
	composed := Apply[float64](Seq[float64](rows, cols), src)

	for i := range full.Data() {
		if math.Abs(full.Data()[i]-composed.Data()[i]) > 1e-9 {
			t.Fatalf("cell %d: composed %v, full %v", i, composed.Data()[i], full.Data()[i])
		}
	}
}

func TestFilterSeqWindowIsMinkowskiSum(t *testing.T) {
	a := MeanFilter[float64](NewBox(Position{-1, 0}, Position{2, 0}))
	b := MeanFilter[float64](NewBox(Position{0, -3}, Position{0, 1}))
	w := Seq[float64](a, b).Window().Bounds()
	if !w.Front().Eq(Position{-1, -3}) || !w.Back().Eq(Position{2, 1}) {
		t.Errorf("window = %v..%v", w.Front(), w.Back())
	}
}

func TestSeqFlattensNestedSequences(t *testing.T) {
	a := MeanFilter[float64](centeredBox(2, 1))
	s := Seq[float64](Seq[float64](a, a), a)
	if got := len(s.Stages()); got != 3 {
		t.Errorf("Stages = %d, want 3", got)
	}
}

func TestFilterAggSumsGradients(t *testing.T) {
	// Aggregating the per-axis second differences on a quadratic
	// f(x, y) = x^2 + y^2 yields the discrete Laplacian, constant 4.
	r := NewRaster[float64](Position{7, 7})
	for p := range r.Domain().Positions() {
		r.Set(p, float64(p[0]*p[0]+p[1]*p[1]))
	}
	f, err := LaplaceOperator[float64](2, 1)
	if err != nil {
		t.Fatal(err)
	}
	out := ApplyCrop[float64](f, r)
	for p := range out.Domain().Positions() {
		if got := out.At(p); math.Abs(got-4) > 1e-12 {
			t.Errorf("At(%v) = %v, want 4", p, got)
		}
	}
}

func TestFilterAggWindowIsBoundingUnion(t *testing.T) {
	a := MeanFilter[float64](NewBox(Position{-2, 0}, Position{0, 0}))
	b := MeanFilter[float64](NewBox(Position{0, -1}, Position{0, 3}))
	w := Agg[float64](func(x, y float64) float64 { return x + y }, a, b).Window().Bounds()
	if !w.Front().Eq(Position{-2, -1}) || !w.Back().Eq(Position{0, 3}) {
		t.Errorf("window = %v..%v", w.Front(), w.Back())
	}
}

func TestSimpleFilterToWithOffsetOrigin(t *testing.T) {
	// Writing a sub-domain into a smaller output raster through origin.
	r := Range(NewRaster[float64](Position{6, 6}))
	f := MeanFilter[float64](centeredBox(2, 1))
	domain := NewBox(Position{2, 2}, Position{3, 3})
	out := NewRaster[float64](domain.Shape())

	f.To(out, domain.Front(), Extrapolate(r, Nearest[float64]{}), domain)

	for p := range domain.Positions() {
		want := r.At(p) // mean of a full interior block of the ramp
		got := out.At(p.Minus(domain.Front()))
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestMedianFilterRemovesImpulse(t *testing.T) {
	r := NewRaster[float64](Position{5, 5})
	r.Fill(10)
	r.Set(Position{2, 2}, 1000)
	f := MedianFilter[float64](centeredBox(2, 1))
	out := Apply[float64](f, Extrapolate(r, Nearest[float64]{}))
	for p := range out.Domain().Positions() {
		if got := out.At(p); got != 10 {
			t.Errorf("At(%v) = %v, want 10", p, got)
		}
	}
}

func TestMorphologyMatchesRankFilters(t *testing.T) {
	// On {0, 1} data, erosion equals the minimum filter and dilation
	// the maximum filter.
	bits := NewRaster[bool](Position{6, 6})
	nums := NewRaster[float64](Position{6, 6})
	for _, p := range []Position{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {4, 4}} {
		bits.Set(p, true)
		nums.Set(p, 1)
	}
	window := Ball(2, 1, Position{0, 0})

	eroded := Apply[bool](Erosion(window), Extrapolate(bits, Constant[bool]{}))
	dilated := Apply[bool](Dilation(window), Extrapolate(bits, Constant[bool]{}))
	minOut := Apply[float64](MinimumFilter[float64](window), Extrapolate(nums, Constant[float64]{}))
	maxOut := Apply[float64](MaximumFilter[float64](window), Extrapolate(nums, Constant[float64]{}))

	for i := range eroded.Data() {
		if eroded.Data()[i] != (minOut.Data()[i] == 1) {
			t.Fatalf("cell %d: erosion disagrees with minimum", i)
		}
		if dilated.Data()[i] != (maxOut.Data()[i] == 1) {
			t.Fatalf("cell %d: dilation disagrees with maximum", i)
		}
	}
}

func TestErosionDilationDuality(t *testing.T) {
	// Dilation of the complement is the complement of the erosion.
	bits := NewRaster[bool](Position{6, 6})
	for _, p := range []Position{{2, 2}, {2, 3}, {3, 2}, {3, 3}} {
		bits.Set(p, true)
	}
	inverted := NewRaster[bool](bits.Shape())
	for i, v := range bits.Data() {
		inverted.Data()[i] = !v
	}
	window := Ball(2, 1, Position{0, 0})

	eroded := Apply[bool](Erosion(window), Extrapolate(bits, Constant[bool]{Value: false}))
	dilatedInv := Apply[bool](Dilation(window), Extrapolate(inverted, Constant[bool]{Value: true}))

	for i := range eroded.Data() {
		if eroded.Data()[i] == dilatedInv.Data()[i] {
			t.Fatalf("cell %d: duality violated", i)
		}
	}
}
