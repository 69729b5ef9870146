package kraster

import "iter"

// Region describes a finite set of ND integer positions. Box, Mask and
// Grid all satisfy it with a uniform iteration contract: Positions
// yields member positions in row-major order (last axis fastest), and
// the yielded buffer is reused across iterations.
//
// Regions serve two roles: a structuring element (the window of a
// filter, iterated as offsets around each output position) or a target
// domain (the set of output positions to fill).
type Region interface {
	// Dimension returns the number of axes.
	Dimension() int
	// Size returns the number of member positions.
	Size() int
	// Bounds returns the tightest enclosing Box.
	Bounds() Box
	// Contains reports whether p belongs to the region.
	Contains(p Position) bool
	// Positions iterates the member positions.
	Positions() iter.Seq[Position]
}

// collect snapshots a region's positions into an owned slice, for hot
// loops that index the window repeatedly rather than re-iterating it.
func collect(r Region) []Position {
	out := make([]Position, 0, r.Size())
	for p := range r.Positions() {
		out = append(out, p.Clone())
	}
	return out
}
