package kraster

// Integer is the constraint satisfied by the built-in integer types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Float is the constraint satisfied by the built-in floating-point types.
type Float interface {
	~float32 | ~float64
}

// Number is the constraint satisfied by every raster element type the
// filtering engine can do arithmetic on. All Number types are totally
// ordered, so the same constraint serves the rank filters (median,
// minimum, maximum).
type Number interface {
	Integer | Float
}

// toFloat widens any Number to float64 for interpolation arithmetic.
func toFloat[T Number](v T) float64 { return float64(v) }

// fromFloat narrows a float64 back to the element type. Integer types
// truncate toward zero, matching Go conversion semantics.
func fromFloat[T Number](v float64) T { return T(v) }
