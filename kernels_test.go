package kraster

import (
	"errors"
	"math"
	"testing"
)

func TestCorrelationVersusConvolution(t *testing.T) {
	// An asymmetric 1-D kernel distinguishes the two: convolution
	// reverses the taps.
	r, err := RasterFromSlice(Position{5}, []float64{0, 0, 1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	src := Extrapolate(r, Constant[float64]{})
	window := NewBox(Position{-1}, Position{1})

	corr, err := Correlate([]float64{1, 2, 3}, window)
	if err != nil {
		t.Fatal(err)
	}
	conv, err := Convolve([]float64{1, 2, 3}, window)
	if err != nil {
		t.Fatal(err)
	}

	// Correlating an impulse writes the reversed kernel; convolving it
	// writes the kernel itself.
	corrOut := Apply[float64](corr, src)
	convOut := Apply[float64](conv, src)
	wantCorr := []float64{0, 3, 2, 1, 0}
	wantConv := []float64{0, 1, 2, 3, 0}
	for i := range wantCorr {
		if corrOut.Data()[i] != wantCorr[i] {
			t.Errorf("correlation[%d] = %v, want %v", i, corrOut.Data()[i], wantCorr[i])
		}
		if convOut.Data()[i] != wantConv[i] {
			t.Errorf("convolution[%d] = %v, want %v", i, convOut.Data()[i], wantConv[i])
		}
	}
}

func TestCorrelateWeightCountMismatch(t *testing.T) {
	_, err := Correlate([]float64{1, 2}, NewBox(Position{-1}, Position{1}))
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestCorrelateRasterOrigin(t *testing.T) {
	w := Range(NewRaster[float64](Position{3}))
	f, err := CorrelateRaster(w, Position{1})
	if err != nil {
		t.Fatal(err)
	}
	b := f.Window().Bounds()
	if !b.Front().Eq(Position{-1}) || !b.Back().Eq(Position{1}) {
		t.Errorf("window = %v..%v", b.Front(), b.Back())
	}
}

func TestCorrelateCentered(t *testing.T) {
	w := NewRaster[float64](Position{3, 5})
	f, err := CorrelateCentered(w)
	if err != nil {
		t.Fatal(err)
	}
	b := f.Window().Bounds()
	if !b.Front().Eq(Position{-1, -2}) || !b.Back().Eq(Position{1, 2}) {
		t.Errorf("window = %v..%v", b.Front(), b.Back())
	}
}

func TestSparseConvolveMatchesDense(t *testing.T) {
	weights, err := RasterFromSlice(Position{3, 3}, []float64{
		0, 1, 0,
		2, 0, 3,
		0, 4, 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	dense, err := ConvolveCentered(weights)
	if err != nil {
		t.Fatal(err)
	}
	sparse, err := SparseConvolve(weights)
	if err != nil {
		t.Fatal(err)
	}
	if got := sparse.Window().Size(); got != 4 {
		t.Errorf("sparse window Size = %d, want 4", got)
	}

	r := Range(NewRaster[float64](Position{6, 6}))
	src := Extrapolate(r, Nearest[float64]{})
	a := Apply[float64](dense, src)
	b := Apply[float64](sparse, src)
	for i := range a.Data() {
		if math.Abs(a.Data()[i]-b.Data()[i]) > 1e-12 {
			t.Fatalf("cell %d: sparse %v, dense %v", i, b.Data()[i], a.Data()[i])
		}
	}
}

func TestConvolveAlongBuildsLineWindows(t *testing.T) {
	f, err := ConvolveAlong([]float64{1, 2, 3, 4}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Even length 4: radius 2, so the window spans -2..1.
	b := f.Window().Bounds()
	if !b.Front().Eq(Position{0, -2}) || !b.Back().Eq(Position{0, 1}) {
		t.Errorf("window = %v..%v", b.Front(), b.Back())
	}
}

func TestSobelGradientOnRamp(t *testing.T) {
	// f(x, y) = 4x: the axis-0 Sobel response is 4 * 2 * 4 = 32
	// (derivative 2*4 through {1, 0, -1} reversed, averaging sums to 4).
	r := NewRaster[float64](Position{6, 6})
	for p := range r.Domain().Positions() {
		r.Set(p, 4*float64(p[0]))
	}
	f, err := SobelGradient[float64](2, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	out := ApplyCrop[float64](f, r)
	for p := range out.Domain().Positions() {
		if got := out.At(p); math.Abs(got-32) > 1e-12 {
			t.Errorf("At(%v) = %v, want 32", p, got)
		}
	}
	// The cross-axis gradient of the same ramp vanishes.
	g, err := SobelGradient[float64](2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	flat := ApplyCrop[float64](g, r)
	for p := range flat.Domain().Positions() {
		if got := flat.At(p); math.Abs(got) > 1e-12 {
			t.Errorf("cross gradient At(%v) = %v, want 0", p, got)
		}
	}
}

func TestGradientWindows(t *testing.T) {
	f, err := PrewittGradient[float64](2, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	b := f.Window().Bounds()
	if !b.Front().Eq(Position{-1, -1}) || !b.Back().Eq(Position{1, 1}) {
		t.Errorf("window = %v..%v", b.Front(), b.Back())
	}
}

func TestLaplaceOperatorIntegerTypes(t *testing.T) {
	// The operator must instantiate for every element type, unsigned
	// included, and reproduce the discrete Laplacian on integers.
	r := NewRaster[int32](Position{5, 5})
	for p := range r.Domain().Positions() {
		r.Set(p, int32(p[0]*p[0]+p[1]*p[1]))
	}
	f, err := LaplaceOperator[int32](2, 1)
	if err != nil {
		t.Fatal(err)
	}
	out := ApplyCrop[int32](f, r)
	for p := range out.Domain().Positions() {
		if got := out.At(p); got != 4 {
			t.Errorf("At(%v) = %d, want 4", p, got)
		}
	}

	if _, err := LaplaceOperator[uint16](2, 1); err != nil {
		t.Errorf("uint16 instantiation failed: %v", err)
	}
}

func TestMeanKernelIntegerTruncation(t *testing.T) {
	r, err := RasterFromSlice(Position{3}, []int{1, 2, 4})
	if err != nil {
		t.Fatal(err)
	}
	f := MeanFilter[int](NewBox(Position{-1}, Position{1}))
	out := ApplyCrop[int](f, r)
	// (1 + 2 + 4) / 3 truncates to 2.
	if got := out.Data()[0]; got != 2 {
		t.Errorf("mean = %d, want 2", got)
	}
}

func TestMedianKernelEvenCountAveragesMiddles(t *testing.T) {
	k := MedianKernel[float64]{window: NewBox(Position{0}, Position{3})}
	if got := k.Apply([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
}

func TestNthElement(t *testing.T) {
	for n := 0; n < 7; n++ {
		v := []int{5, 3, 6, 0, 2, 1, 4}
		if got := nthElement(v, n); got != n {
			t.Errorf("nthElement(%d) = %d, want %d", n, got, n)
		}
	}
}

func TestGaussianKernel1D(t *testing.T) {
	k := GaussianKernel1D(1.5)
	if len(k)%2 != 1 {
		t.Fatalf("even kernel length %d", len(k))
	}
	sum := 0.0
	for i, v := range k {
		sum += v
		if v != k[len(k)-1-i] {
			t.Errorf("kernel not symmetric at %d", i)
		}
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("kernel sums to %v, want 1", sum)
	}
	mid := len(k) / 2
	if k[mid] <= k[mid-1] {
		t.Error("kernel does not peak at the center")
	}
	if got := GaussianKernel1D(0); len(got) != 1 || got[0] != 1 {
		t.Errorf("degenerate sigma kernel = %v", got)
	}
}

func TestBoxKernel1D(t *testing.T) {
	k := BoxKernel1D(2)
	if len(k) != 5 {
		t.Fatalf("length = %d, want 5", len(k))
	}
	for _, v := range k {
		if math.Abs(v-0.2) > 1e-12 {
			t.Errorf("tap = %v, want 0.2", v)
		}
	}
}

func TestGaussianFilterPreservesConstants(t *testing.T) {
	r := NewRaster[float64](Position{8, 8})
	r.Fill(3)
	f, err := GaussianFilter(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	out := Apply[float64](f, Extrapolate(r, Nearest[float64]{}))
	for i, v := range out.Data() {
		if math.Abs(v-3) > 1e-9 {
			t.Errorf("cell %d = %v, want 3", i, v)
		}
	}
}

func TestErosionShortCircuit(t *testing.T) {
	k := &ErosionKernel{window: centeredBox(2, 1)}
	if v, ok := k.shortCircuit(false); !ok || v {
		t.Error("false center must short-circuit to false")
	}
	if _, ok := k.shortCircuit(true); ok {
		t.Error("true center must not short-circuit")
	}

	d := &DilationKernel{window: centeredBox(2, 1)}
	if v, ok := d.shortCircuit(true); !ok || !v {
		t.Error("true center must short-circuit to true")
	}
	if _, ok := d.shortCircuit(false); ok {
		t.Error("false center must not short-circuit")
	}
}
