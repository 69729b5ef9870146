package kraster

import (
	"fmt"
	"iter"
)

// Grid is a strided sublattice of a Box: the positions congruent to the
// box front modulo a per-axis positive step. The back is trimmed at
// construction so that iteration always lands exactly on step
// boundaries. Grids serve block and tile decomposition and
// down-sampled neighborhoods.
type Grid struct {
	box  Box
	step Position
}

// NewGrid returns the grid over box with the given per-axis step.
// Every step must be positive.
func NewGrid(box Box, step Position) (Grid, error) {
	if box.Dimension() != step.Dimension() {
		return Grid{}, fmt.Errorf("%w: box dimension %d, step dimension %d", ErrDimensionMismatch, box.Dimension(), step.Dimension())
	}
	for i, s := range step {
		if s <= 0 {
			return Grid{}, fmt.Errorf("kraster: grid step must be positive, got %d along axis %d", s, i)
		}
	}
	back := box.Back().Clone()
	for i := range back {
		if box.Length(i) > 0 {
			back[i] -= (box.Length(i) - 1) % step[i]
		}
	}
	return Grid{box: NewBox(box.Front(), back), step: step.Clone()}, nil
}

// Box returns the trimmed bounding box.
func (g Grid) Box() Box { return g.box }

// Bounds returns the trimmed bounding box, satisfying Region.
func (g Grid) Bounds() Box { return g.box }

// Front returns the front position.
func (g Grid) Front() Position { return g.box.Front() }

// Back returns the trimmed back position.
func (g Grid) Back() Position { return g.box.Back() }

// Step returns the per-axis step.
func (g Grid) Step() Position { return g.step }

// Dimension returns the number of axes.
func (g Grid) Dimension() int { return g.box.Dimension() }

// Length returns the number of grid nodes along axis i.
func (g Grid) Length(i int) int {
	if g.box.Length(i) <= 0 {
		return 0
	}
	return (g.box.Length(i)-1)/g.step[i] + 1
}

// Size returns the number of grid nodes.
func (g Grid) Size() int {
	size := 1
	for i := range g.step {
		size *= g.Length(i)
	}
	return size
}

// Contains reports whether p is a grid node: inside the box and
// congruent to the front modulo the step on every axis.
func (g Grid) Contains(p Position) bool {
	if !g.box.Contains(p) {
		return false
	}
	for i := range p {
		if (p[i]-g.box.Front()[i])%g.step[i] != 0 {
			return false
		}
	}
	return true
}

// Eq reports whether two grids have the same box and step.
func (g Grid) Eq(other Grid) bool {
	return g.box.Eq(other.box) && g.step.Eq(other.step)
}

// Translate shifts the grid by the given vector.
func (g Grid) Translate(v Position) Grid {
	return Grid{box: g.box.Translate(v), step: g.step}
}

// TranslateScalar shifts every coordinate by s.
func (g Grid) TranslateScalar(s int) Grid {
	return Grid{box: g.box.TranslateScalar(s), step: g.step}
}

// Negate mirrors the grid through the origin. Since the trimmed back is
// congruent to the front, the mirrored nodes are anchored at the new
// front with the same step.
func (g Grid) Negate() Grid {
	return Grid{box: g.box.Negate(), step: g.step}
}

// Intersect clamps the grid to the given bounds, re-anchoring the front
// on the first node inside. The result's nodes are exactly the grid
// nodes inside bounds.
func (g Grid) Intersect(bounds Box) Grid {
	clamped := g.box.Intersect(bounds)
	front := clamped.Front().Clone()
	for i := range front {
		offset := front[i] - g.box.Front()[i]
		if rem := offset % g.step[i]; rem != 0 {
			front[i] += g.step[i] - rem
		}
	}
	out, _ := NewGrid(NewBox(front, clamped.Back()), g.step)
	return out
}

// Extend raises the grid to a higher dimension by appending degenerate
// padded axes with unit step.
func (g Grid) Extend(dim int, padding Position) Grid {
	step := make(Position, dim)
	copy(step, g.step)
	for i := g.Dimension(); i < dim; i++ {
		step[i] = 1
	}
	return Grid{box: g.box.Extend(dim, padding), step: step}
}

// Positions iterates the grid nodes in row-major order, last axis
// fastest. The yielded position is a reused buffer.
func (g Grid) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if g.box.Empty() {
			return
		}
		p := g.box.Front().Clone()
		for {
			if !yield(p) {
				return
			}
			i := len(p) - 1
			for ; i >= 0; i-- {
				if p[i]+g.step[i] <= g.box.Back()[i] {
					p[i] += g.step[i]
					break
				}
				p[i] = g.box.Front()[i]
			}
			if i < 0 {
				return
			}
		}
	}
}
