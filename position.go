package kraster

import "math"

// Position is an ordered tuple of integer coordinates on the ND lattice.
// The dimension is the tuple length; it is fixed at construction and all
// operations require operands of equal dimension.
//
// Positions behave as values: arithmetic methods return fresh tuples and
// never modify their receiver. Code that stores a Position obtained from
// an iterator must Clone it first, since iterators reuse their buffer.
type Position []int

// NewPosition returns the zero position of the given dimension.
func NewPosition(dim int) Position {
	return make(Position, dim)
}

// FullPosition returns a position with every coordinate set to value.
func FullPosition(dim, value int) Position {
	p := make(Position, dim)
	for i := range p {
		p[i] = value
	}
	return p
}

// Dimension returns the number of coordinates.
func (p Position) Dimension() int { return len(p) }

// Clone returns an independent copy of p.
func (p Position) Clone() Position {
	q := make(Position, len(p))
	copy(q, p)
	return q
}

// Eq reports whether p and q hold the same coordinates.
func (p Position) Eq(q Position) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Plus returns the element-wise sum p + q.
func (p Position) Plus(q Position) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = p[i] + q[i]
	}
	return out
}

// Minus returns the element-wise difference p - q.
func (p Position) Minus(q Position) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = p[i] - q[i]
	}
	return out
}

// PlusScalar adds s to every coordinate.
func (p Position) PlusScalar(s int) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = p[i] + s
	}
	return out
}

// Times multiplies every coordinate by s.
func (p Position) Times(s int) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = p[i] * s
	}
	return out
}

// Negate returns the coordinate-wise opposite of p.
func (p Position) Negate() Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = -p[i]
	}
	return out
}

// Min returns the element-wise minimum of p and q.
func (p Position) Min(q Position) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = min(p[i], q[i])
	}
	return out
}

// Max returns the element-wise maximum of p and q.
func (p Position) Max(q Position) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = max(p[i], q[i])
	}
	return out
}

// Dot returns the inner product of p and q.
func (p Position) Dot(q Position) int {
	out := 0
	for i := range p {
		out += p[i] * q[i]
	}
	return out
}

// Clamp returns the position moved to the nearest point of the box.
func (p Position) Clamp(b Box) Position {
	out := make(Position, len(p))
	for i := range p {
		out[i] = min(max(p[i], b.Front()[i]), b.Back()[i])
	}
	return out
}

// Vector returns the real-valued counterpart of p.
func (p Position) Vector() Vector {
	out := make(Vector, len(p))
	for i := range p {
		out[i] = float64(p[i])
	}
	return out
}

// normPow computes the p-th power of the Lp (pseudo-)norm of the
// position: the count of nonzero coordinates for p = 0, the sum of
// absolute values for p = 1, the sum of squares for p = 2.
func normPow(pos Position, p int) float64 {
	var out float64
	for _, c := range pos {
		switch p {
		case 0:
			if c != 0 {
				out++
			}
		case 1:
			out += math.Abs(float64(c))
		default:
			out += math.Pow(math.Abs(float64(c)), float64(p))
		}
	}
	return out
}

// Vector is an ordered tuple of real coordinates, used for fractional
// sampling positions and affine transform inputs and outputs.
type Vector []float64

// NewVector returns the zero vector of the given dimension.
func NewVector(dim int) Vector {
	return make(Vector, dim)
}

// Dimension returns the number of coordinates.
func (v Vector) Dimension() int { return len(v) }

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Plus returns the element-wise sum v + w.
func (v Vector) Plus(w Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + w[i]
	}
	return out
}

// Minus returns the element-wise difference v - w.
func (v Vector) Minus(w Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - w[i]
	}
	return out
}

// Scale multiplies every coordinate by s.
func (v Vector) Scale(s float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}
