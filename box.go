package kraster

import "iter"

// Box is a dense axis-aligned region of the integer lattice, defined by
// its front and back positions, both inclusive. A box may be empty along
// an axis (back < front), in which case it contains no position, has
// size zero, and iterates zero times; emptiness is a valid value, not an
// error.
type Box struct {
	front Position
	back  Position
}

// NewBox returns the box spanning front..back inclusive.
// Both positions must have the same dimension.
func NewBox(front, back Position) Box {
	if len(front) != len(back) {
		panic("kraster: box front and back dimensions differ")
	}
	return Box{front: front.Clone(), back: back.Clone()}
}

// BoxFromShape returns the zero-fronted box of the given shape.
func BoxFromShape(shape Position) Box {
	return Box{front: NewPosition(len(shape)), back: shape.PlusScalar(-1)}
}

// Front returns the front position.
func (b Box) Front() Position { return b.front }

// Back returns the back position.
func (b Box) Back() Position { return b.back }

// Dimension returns the number of axes.
func (b Box) Dimension() int { return len(b.front) }

// Length returns back[i] - front[i] + 1, the extent along axis i.
// It may be zero or negative for an empty box.
func (b Box) Length(i int) int { return b.back[i] - b.front[i] + 1 }

// Shape returns the per-axis lengths.
func (b Box) Shape() Position {
	s := make(Position, len(b.front))
	for i := range s {
		s[i] = b.Length(i)
	}
	return s
}

// Size returns the number of positions in the box, zero if empty.
func (b Box) Size() int {
	if b.Empty() {
		return 0
	}
	size := 1
	for i := range b.front {
		size *= b.Length(i)
	}
	return size
}

// Empty reports whether any axis has non-positive length.
func (b Box) Empty() bool {
	for i := range b.front {
		if b.back[i] < b.front[i] {
			return true
		}
	}
	return len(b.front) == 0
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p Position) bool {
	for i := range b.front {
		if p[i] < b.front[i] || p[i] > b.back[i] {
			return false
		}
	}
	return true
}

// Eq reports whether two boxes have the same bounds.
func (b Box) Eq(other Box) bool {
	return b.front.Eq(other.front) && b.back.Eq(other.back)
}

// Bounds returns the box itself, satisfying the Region contract.
func (b Box) Bounds() Box { return b }

// Translate shifts the box by the given vector.
func (b Box) Translate(v Position) Box {
	return Box{front: b.front.Plus(v), back: b.back.Plus(v)}
}

// TranslateScalar shifts every coordinate of both bounds by s.
func (b Box) TranslateScalar(s int) Box {
	return Box{front: b.front.PlusScalar(s), back: b.back.PlusScalar(s)}
}

// Negate mirrors the box through the origin.
func (b Box) Negate() Box {
	return Box{front: b.back.Negate(), back: b.front.Negate()}
}

// Intersect clamps the box to the given bounds. The result contains
// exactly the positions in both boxes, and may be empty.
func (b Box) Intersect(bounds Box) Box {
	return Box{front: b.front.Max(bounds.front), back: b.back.Min(bounds.back)}
}

// Extend raises the box to a higher dimension by appending degenerate
// axes at the padding coordinates: the new axes have zero extent, so
// the extended box holds the same number of positions. Extending a 2-D
// kernel window to 3-D applies the kernel slice-wise over a cube.
func (b Box) Extend(dim int, padding Position) Box {
	front := make(Position, dim)
	back := make(Position, dim)
	for i := 0; i < dim; i++ {
		if i < len(b.front) {
			front[i] = b.front[i]
			back[i] = b.back[i]
		} else {
			front[i] = padding[i]
			back[i] = padding[i]
		}
	}
	return Box{front: front, back: back}
}

// Center returns the midpoint position, rounding down on even lengths.
func (b Box) Center() Position {
	c := make(Position, len(b.front))
	for i := range c {
		c[i] = b.front[i] + (b.back[i]-b.front[i])/2
	}
	return c
}

// Positions iterates the box in row-major order, the last axis varying
// fastest. The yielded position is a single reused buffer: callers that
// retain it past one iteration must Clone it.
func (b Box) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if b.Empty() {
			return
		}
		p := b.front.Clone()
		for {
			if !yield(p) {
				return
			}
			i := len(p) - 1
			for ; i >= 0; i-- {
				if p[i] < b.back[i] {
					p[i]++
					break
				}
				p[i] = b.front[i]
			}
			if i < 0 {
				return
			}
		}
	}
}
