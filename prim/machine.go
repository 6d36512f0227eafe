package prim

import (
	"math"

	"github.com/lattice-substrate/lazynum/rterr"
)

// Carry is a 32-bit result together with its overflow flag.
type Carry struct {
	Value    int32
	Overflow bool
}

// Quot divides a by b, truncating towards zero. MinInt32 / -1 wraps.
func Quot(a, b int32) (int32, error) {
	if b == 0 {
		return 0, rterr.New(rterr.InvalidArgument, 1, "prim: quot: division by zero")
	}
	return a / b, nil
}

// Imul is 32-bit multiplication with wrap-around on overflow. The product is
// assembled from 16-bit halves; the high×high term never reaches the low 32
// bits and is skipped.
func Imul(a, b int32) int32 {
	ua, ub := uint32(a), uint32(b)
	lows := (ua & 0xffff) * (ub & 0xffff)
	cross := ((ua & 0xffff) * (ub >> 16)) + ((ua >> 16) * (ub & 0xffff))
	return int32(lows + cross<<16)
}

// AddC adds with wrap-around and reports signed overflow.
func AddC(a, b int32) Carry {
	x := int64(a) + int64(b)
	return Carry{Value: int32(x), Overflow: x > math.MaxInt32 || x < math.MinInt32}
}

// SubC subtracts with wrap-around and reports signed overflow.
func SubC(a, b int32) Carry {
	x := int64(a) - int64(b)
	return Carry{Value: int32(x), Overflow: x > math.MaxInt32 || x < math.MinInt32}
}
