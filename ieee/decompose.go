// Package ieee decomposes IEEE 754 binary64 values into an exact integral
// mantissa and binary exponent:
//
//	x = Sign × Mantissa × 2^Exponent
//
// NaN, ±Infinity and ±0 map to documented sentinel triples instead of going
// through the generic path. The non-finite sentinels use Exponent 972, one
// past the largest exponent a finite double can produce (971), so consumers
// can tell them apart without special-casing the arithmetic.
package ieee

import (
	"math"

	"github.com/lattice-substrate/lazynum/bigint"
	"github.com/lattice-substrate/lazynum/rterr"
)

const (
	// MantissaBits is the precision of a binary64 significand.
	MantissaBits = 53

	// MinExponent is the exponent of the smallest subnormal, 2^-1074.
	MinExponent = -1074

	// MaxExponent is the largest exponent of a finite decomposition.
	MaxExponent = 1023 - (MantissaBits - 1)

	// SentinelExponent marks NaN and Infinity decompositions.
	SentinelExponent = MaxExponent + 1
)

// Sentinel mantissas.
const (
	nanMantissa = 6755399441055744 // 1.5 × 2^52, carried with Sign -1
	infMantissa = 1 << 52
)

// Decomposed is an exact decomposition of a binary64 value.
type Decomposed struct {
	Mantissa *bigint.Int // non-negative, at most 53 bits
	Exponent int
	Sign     int // -1 or +1
}

// Decompose returns the exact decomposition of x.
//
// For finite non-zero x the exponent is floor(log2|x|) - 52, raised to
// MinExponent for subnormals so that one unit of the mantissa is exactly the
// spacing between x and its neighbours.
func Decompose(x float64) Decomposed {
	switch {
	case math.IsNaN(x):
		return Decomposed{Mantissa: bigint.FromInt64(nanMantissa), Exponent: SentinelExponent, Sign: -1}
	case math.IsInf(x, 0):
		return Decomposed{Mantissa: bigint.FromInt64(infMantissa), Exponent: SentinelExponent, Sign: signOf(x)}
	case x == 0:
		return Decomposed{Mantissa: bigint.Zero(), Exponent: 0, Sign: signOf(x)}
	}

	sign := signOf(x)
	ax := math.Abs(x)
	exp := Log2(ax) - (MantissaBits - 1)
	if exp < MinExponent {
		exp = MinExponent
	}
	// Scaling by a power of two is exact and the result is an integer below 2^53.
	man := math.Ldexp(ax, -exp)
	return Decomposed{Mantissa: bigint.FromUint64(uint64(man)), Exponent: exp, Sign: sign}
}

func signOf(x float64) int {
	if math.Signbit(x) {
		return -1
	}
	return 1
}

// IsNaN reports whether d is the NaN sentinel.
func (d Decomposed) IsNaN() bool {
	return d.Exponent == SentinelExponent && d.Mantissa.Int64() == nanMantissa
}

// IsInf reports whether d is an infinity sentinel.
func (d Decomposed) IsInf() bool {
	return d.Exponent == SentinelExponent && d.Mantissa.Int64() == infMantissa
}

// IsZero reports whether d is ±0.
func (d Decomposed) IsZero() bool {
	return d.Mantissa.IsZero()
}

// IsFinite reports whether d decomposes a finite value.
func (d Decomposed) IsFinite() bool {
	return d.Exponent != SentinelExponent
}

// Negative reports whether the sign is negative, including -0 and -Inf.
func (d Decomposed) Negative() bool {
	return d.Sign < 0
}

// Float64 reconstructs the value d decomposes.
func (d Decomposed) Float64() float64 {
	switch {
	case d.IsNaN():
		return math.NaN()
	case d.IsInf():
		return math.Inf(d.Sign)
	}
	man := float64(d.Mantissa.Int64())
	return float64(d.Sign) * math.Ldexp(man, d.Exponent)
}

// Log2 returns floor(log2(x)) for finite x > 0, found by bracketing x
// between exact powers of two with a binary search.
func Log2(x float64) int {
	if !(x > 0) || math.IsInf(x, 0) {
		rterr.Fatal(rterr.InvalidArgument, -1, "ieee: log2 of %v", x)
	}
	lo, hi := MinExponent, 1023
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		if math.Ldexp(1, mid) <= x {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
