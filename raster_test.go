package kraster

import (
	"errors"
	"testing"
)

func TestRasterIndexing(t *testing.T) {
	r := Range(NewRaster[int](Position{2, 3, 4}))

	if got := r.Size(); got != 24 {
		t.Fatalf("Size = %d, want 24", got)
	}
	// Row-major: the last axis varies fastest.
	tests := []struct {
		p    Position
		want int
	}{
		{Position{0, 0, 0}, 0},
		{Position{0, 0, 1}, 1},
		{Position{0, 1, 0}, 4},
		{Position{1, 0, 0}, 12},
		{Position{1, 2, 3}, 23},
	}
	for _, tt := range tests {
		if got := r.At(tt.p); got != tt.want {
			t.Errorf("At(%v) = %d, want %d", tt.p, got, tt.want)
		}
		if got := r.Index(tt.p); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestRasterDataIterationOrderAgreesWithDomain(t *testing.T) {
	r := Range(NewRaster[int](Position{3, 2}))
	i := 0
	for p := range r.Domain().Positions() {
		if got := r.At(p); got != i {
			t.Fatalf("At(%v) = %d, want %d", p, got, i)
		}
		i++
	}
}

func TestRasterEmptyShape(t *testing.T) {
	// Shapes with non-positive lengths come out of empty boxes, for
	// instance after intersecting disjoint regions. They must allocate a
	// valid size-0 raster, not panic.
	for _, shape := range []Position{{0, 3}, {3, 0}, {-2, 3}, {-1, -1}} {
		r := NewRaster[int](shape)
		if r.Size() != 0 {
			t.Errorf("NewRaster(%v).Size() = %d, want 0", shape, r.Size())
		}
		if !r.Domain().Empty() {
			t.Errorf("NewRaster(%v).Domain() not empty", shape)
		}
	}
}

func TestRasterFromSlice(t *testing.T) {
	buf := []float32{1, 2, 3, 4, 5, 6}
	r, err := RasterFromSlice(Position{2, 3}, buf)
	if err != nil {
		t.Fatal(err)
	}
	// Borrowed, not copied.
	r.Set(Position{0, 1}, 42)
	if buf[1] != 42 {
		t.Errorf("write did not reach backing buffer: %v", buf)
	}

	_, err = RasterFromSlice(Position{2, 4}, buf)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestRasterFillAndClone(t *testing.T) {
	r := NewRaster[int](Position{2, 2})
	r.Fill(7)
	c := r.Clone()
	c.Set(Position{0, 0}, 0)
	if r.At(Position{0, 0}) != 7 {
		t.Error("clone aliases original")
	}
	for _, v := range r.Data() {
		if v != 7 {
			t.Fatalf("Fill left value %d", v)
		}
	}
}

func TestRasterContains(t *testing.T) {
	r := NewRaster[int](Position{2, 3})
	if !r.Contains(Position{1, 2}) {
		t.Error("in-domain position rejected")
	}
	if r.Contains(Position{2, 0}) || r.Contains(Position{0, -1}) {
		t.Error("out-of-domain position accepted")
	}
}

func TestPatch(t *testing.T) {
	r := Range(NewRaster[int](Position{4, 4}))
	window := NewBox(Position{1, 1}, Position{2, 3})
	p, err := r.Patch(window)
	if err != nil {
		t.Fatal(err)
	}

	// Reads and writes are in parent coordinates and alias the parent.
	if got := p.At(Position{1, 2}); got != 6 {
		t.Errorf("At = %d, want 6", got)
	}
	p.Set(Position{2, 1}, -1)
	if r.At(Position{2, 1}) != -1 {
		t.Error("patch write did not reach parent")
	}

	// Copy materializes re-fronted at the origin.
	c := p.Copy()
	if !c.Shape().Eq(Position{2, 3}) {
		t.Fatalf("copy shape = %v", c.Shape())
	}
	if got := c.At(Position{0, 1}); got != 6 {
		t.Errorf("copy At([0 1]) = %d, want 6", got)
	}
	c.Set(Position{0, 0}, 99)
	if r.At(Position{1, 1}) == 99 {
		t.Error("copy aliases parent")
	}
}

func TestPatchOutsideDomain(t *testing.T) {
	r := NewRaster[int](Position{2, 2})
	if _, err := r.Patch(NewBox(Position{0, 0}, Position{2, 2})); err == nil {
		t.Error("window exceeding domain accepted")
	}
}
