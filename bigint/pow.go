package bigint

import (
	"sync"

	"github.com/lattice-substrate/lazynum/rterr"
)

// Table bounds. Float decomposition and shortest-digit generation for
// binary64 need 2^0..2^1076 and 10^0..10^326; the tables leave headroom for
// the scale fixup steps.
const (
	MaxPow2  = 1100
	MaxPow10 = 400
)

var (
	tablesOnce sync.Once
	pow2Table  []*Int
	pow10Table []*Int
)

func buildTables() {
	pow2Table = make([]*Int, MaxPow2+1)
	for n := range pow2Table {
		mag := make([]uint32, n/32+1)
		mag[n/32] = 1 << (n % 32)
		pow2Table[n] = &Int{sign: 1, mag: mag}
	}

	pow10Table = make([]*Int, MaxPow10+1)
	pow10Table[0] = one
	for n := 1; n < len(pow10Table); n++ {
		pow10Table[n] = pow10Table[n-1].MulSmall(10)
	}
}

// Pow2 returns 2^n from the precomputed table. n outside [0, MaxPow2] is a
// fatal INDEX_OUT_OF_RANGE error.
func Pow2(n int) *Int {
	tablesOnce.Do(buildTables)
	if n < 0 || n >= len(pow2Table) {
		rterr.Fatal(rterr.IndexOutOfRange, n, "bigint: pow2 table holds 2^0..2^%d", MaxPow2)
	}
	return pow2Table[n]
}

// Pow10 returns 10^n from the precomputed table. n outside [0, MaxPow10] is
// a fatal INDEX_OUT_OF_RANGE error.
func Pow10(n int) *Int {
	tablesOnce.Do(buildTables)
	if n < 0 || n >= len(pow10Table) {
		rterr.Fatal(rterr.IndexOutOfRange, n, "bigint: pow10 table holds 10^0..10^%d", MaxPow10)
	}
	return pow10Table[n]
}

// Pow returns base^exp. A negative exp is a fatal NEGATIVE_EXPONENT error.
// Powers of 2 and 10 within the table bounds are served from the tables;
// everything else uses repeated squaring.
func Pow(base *Int, exp int) *Int {
	if exp < 0 {
		rterr.Fatal(rterr.NegativeExponent, -1, "bigint: pow(%s, %d)", base, exp)
	}
	if base.sign > 0 && len(base.mag) == 1 {
		switch {
		case base.mag[0] == 2 && exp <= MaxPow2:
			return Pow2(exp)
		case base.mag[0] == 10 && exp <= MaxPow10:
			return Pow10(exp)
		}
	}

	result, b := one, base
	for e := exp; e > 0; e >>= 1 {
		if e&1 == 1 {
			result = result.Mul(b)
		}
		if e > 1 {
			b = b.Mul(b)
		}
	}
	return result
}
