package ieee

import "math"

// Double is a decomposition with the mantissa split into 32-bit words, for
// callers that work on raw machine words instead of BigInts.
type Double struct {
	Sign     int
	ManHigh  uint32
	ManLow   uint32
	Exponent int
}

// DecodeDouble splits the mantissa of Decompose(x) into high and low words.
// The NaN sentinel keeps its negative sign here as well.
func DecodeDouble(x float64) Double {
	d := Decompose(x)
	m := uint64(d.Mantissa.Int64())
	return Double{
		Sign:     d.Sign,
		ManHigh:  uint32(m >> 32),
		ManLow:   uint32(m),
		Exponent: d.Exponent,
	}
}

// Mantissa joins the two words back together.
func (d Double) Mantissa() uint64 {
	return uint64(d.ManHigh)<<32 | uint64(d.ManLow)
}

// IsNegativeZero reports whether x is -0.
func IsNegativeZero(x float64) bool {
	return x == 0 && math.Signbit(x)
}

// RoundHalfEven rounds x to the nearest integer, ties to even.
func RoundHalfEven(x float64) float64 {
	return math.RoundToEven(x)
}
