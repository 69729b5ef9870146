package kraster

import (
	"fmt"
	"iter"
)

// Mask is a Box with a boolean flag per position, used to represent
// non-rectangular structuring elements such as disks or sparse kernels.
// Only flagged positions are members: iteration skips unflagged cells,
// which lets erosion and dilation ignore disabled neighbors at
// near-zero bookkeeping cost.
type Mask struct {
	box   Box
	flags *Raster[bool]
}

// NewMask returns a mask over the given box with every flag set to flag.
func NewMask(box Box, flag bool) Mask {
	flags := NewRaster[bool](box.Shape())
	if flag {
		flags.Fill(true)
	}
	return Mask{box: box, flags: flags}
}

// MaskFromFlags returns a mask over the given box with explicit flags.
// The flag raster shape must equal the box shape.
func MaskFromFlags(box Box, flags *Raster[bool]) (Mask, error) {
	if !flags.Shape().Eq(box.Shape()) {
		return Mask{}, fmt.Errorf("%w: flags shape %v, box shape %v", ErrShapeMismatch, flags.Shape(), box.Shape())
	}
	return Mask{box: box, flags: flags}, nil
}

// MaskFromCenter returns a fully flagged hypercube mask of the given
// radius around center.
func MaskFromCenter(radius int, center Position) Mask {
	return NewMask(NewBox(center.PlusScalar(-radius), center.PlusScalar(radius)), true)
}

// Ball returns the Lp ball of the given radius around center: the
// positions whose Lp (pseudo-)norm relative to center does not exceed
// radius. p = 2 gives the Euclidean disk, p = 1 the diamond, and p = 0
// flags positions by their count of nonzero offsets.
func Ball(p int, radius float64, center Position) Mask {
	out := NewMask(NewBox(center.PlusScalar(-int(radius)), center.PlusScalar(int(radius))), false)
	radiusPow := radius
	if p != 1 {
		radiusPow = pow(radius, p)
	}
	offset := make(Position, len(center))
	for pos := range out.box.Positions() {
		for i := range offset {
			offset[i] = pos[i] - center[i]
		}
		if normPow(offset, p) <= radiusPow {
			out.flags.Set(pos.Minus(out.box.Front()), true)
		}
	}
	return out
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// Box returns the bounding box.
func (m Mask) Box() Box { return m.box }

// Bounds returns the bounding box, satisfying the Region contract.
func (m Mask) Bounds() Box { return m.box }

// Flags returns the flag raster, indexed relative to the box front.
func (m Mask) Flags() *Raster[bool] { return m.flags }

// Dimension returns the number of axes.
func (m Mask) Dimension() int { return m.box.Dimension() }

// Shape returns the bounding box shape.
func (m Mask) Shape() Position { return m.box.Shape() }

// Size counts the flagged positions. O(volume of the bounding box).
func (m Mask) Size() int {
	count := 0
	for _, f := range m.flags.Data() {
		if f {
			count++
		}
	}
	return count
}

// Contains reports whether p is inside the box and flagged.
func (m Mask) Contains(p Position) bool {
	if !m.box.Contains(p) {
		return false
	}
	return m.flags.At(p.Minus(m.box.Front()))
}

// SetFlag flags or unflags a position, which must be inside the box.
func (m Mask) SetFlag(p Position, flag bool) {
	m.flags.Set(p.Minus(m.box.Front()), flag)
}

// Eq reports whether two masks have the same box and flags.
func (m Mask) Eq(other Mask) bool {
	if !m.box.Eq(other.box) {
		return false
	}
	a, b := m.flags.Data(), other.flags.Data()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Translate shifts the mask by the given vector. Flags move with the
// box; their values are copied, so the result does not alias m.
func (m Mask) Translate(v Position) Mask {
	return Mask{box: m.box.Translate(v), flags: m.flags.Clone()}
}

// TranslateScalar shifts every coordinate of the box by s.
func (m Mask) TranslateScalar(s int) Mask {
	return Mask{box: m.box.TranslateScalar(s), flags: m.flags.Clone()}
}

// Negate mirrors the mask through the origin. The flag buffer is
// reversed so that flags still line up with the mirrored traversal.
func (m Mask) Negate() Mask {
	flags := m.flags.Clone()
	data := flags.Data()
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
	return Mask{box: m.box.Negate(), flags: flags}
}

// Intersect clamps the mask to the given bounds, copying the retained
// sub-array of flags. The result's members are exactly the flagged
// positions inside bounds.
func (m Mask) Intersect(bounds Box) Mask {
	box := m.box.Intersect(bounds)
	flags := NewRaster[bool](box.Shape())
	if !box.Empty() {
		rel := make(Position, box.Dimension())
		for p := range box.Positions() {
			for i := range rel {
				rel[i] = p[i] - box.Front()[i]
			}
			flags.Set(rel, m.Contains(p))
		}
	}
	return Mask{box: box, flags: flags}
}

// Extend raises the mask to a higher dimension by appending degenerate
// padded axes; the flags carry over unchanged.
func (m Mask) Extend(dim int, padding Position) Mask {
	box := m.box.Extend(dim, padding)
	flags, _ := RasterFromSlice(box.Shape(), m.flags.Data())
	return Mask{box: box, flags: flags}
}

// Positions iterates the flagged positions in row-major order. The
// yielded position is a reused buffer.
func (m Mask) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		data := m.flags.Data()
		i := 0
		for p := range m.box.Positions() {
			if data[i] && !yield(p) {
				return
			}
			i++
		}
	}
}
