package kraster

import "iter"

// slabs splits a box into at most k contiguous slabs along its slowest
// (first) axis, for distribution across workers. Slabs cover the box
// exactly and do not overlap. An empty box or k <= 1 yields the box
// itself.
func slabs(domain Box, k int) []Box {
	length := domain.Length(0)
	if k > length {
		k = length
	}
	if k <= 1 || domain.Empty() {
		return []Box{domain}
	}
	out := make([]Box, 0, k)
	base := length / k
	extra := length % k
	row := domain.Front()[0]
	for i := 0; i < k; i++ {
		n := base
		if i < extra {
			n++
		}
		front := domain.Front().Clone()
		back := domain.Back().Clone()
		front[0] = row
		back[0] = row + n - 1
		out = append(out, NewBox(front, back))
		row += n
	}
	return out
}

// TileAlong iterates over the unit-thick sections of a box
// perpendicular to the given axis, front to back.
func TileAlong(b Box, axis int) iter.Seq[Box] {
	return func(yield func(Box) bool) {
		if b.Empty() {
			return
		}
		front := b.Front().Clone()
		back := b.Back().Clone()
		for row := b.Front()[axis]; row <= b.Back()[axis]; row++ {
			front[axis] = row
			back[axis] = row
			if !yield(NewBox(front, back)) {
				return
			}
		}
	}
}

// Tiles iterates over the tiles of the given shape which cover a box,
// anchored at its front. Edge tiles are clipped to the box, so tiles
// partition the box exactly.
func Tiles(b Box, shape Position) iter.Seq[Box] {
	return func(yield func(Box) bool) {
		if b.Empty() {
			return
		}
		grid, err := NewGrid(b, shape.Clone())
		if err != nil {
			return
		}
		step := shape.PlusScalar(-1)
		for front := range grid.Positions() {
			tile := NewBox(front, front.Plus(step)).Intersect(b)
			if !yield(tile) {
				return
			}
		}
	}
}
