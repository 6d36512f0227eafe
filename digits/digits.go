// Package digits generates the shortest digit sequence that identifies a
// binary64 value among its neighbours, in any radix from 2 to 36.
//
// The generator follows the Burger-Dybvig free-format algorithm. The value
// and the two half-way points to the adjacent doubles are held as exact
// BigInt ratios r/s, (r+m+)/s and (r-m-)/s; no floating-point arithmetic is
// used past the initial scale estimate, so the result is exact.
//
// For even mantissas the half-way points themselves round back to the value
// under round-half-even reading, so the boundaries are inclusive.
package digits

import (
	"math"
	"strconv"
	"strings"

	"github.com/lattice-substrate/lazynum/bigint"
	"github.com/lattice-substrate/lazynum/ieee"
	"github.com/lattice-substrate/lazynum/rterr"
)

// Radix bounds.
const (
	MinRadix = 2
	MaxRadix = 36
)

// maxDigits bounds the generation loop. A binary64 needs at most 1075
// significant digits in radix 2.
const maxDigits = 1100

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Digits is a digit sequence with its exponent: the value is
// 0.d1d2d3... × Radix^Exponent. Digits holds digit values, not characters.
type Digits struct {
	Digits   []byte
	Exponent int
	Radix    int
}

// Text returns the digits as characters, without exponent.
func (d Digits) Text() string {
	var b strings.Builder
	b.Grow(len(d.Digits))
	for _, v := range d.Digits {
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// String renders d as "0.<digits>e<exponent>" for diagnostics.
func (d Digits) String() string {
	return "0." + d.Text() + "e" + strconv.Itoa(d.Exponent)
}

// IsZero reports whether d is the zero sequence.
func (d Digits) IsZero() bool {
	return len(d.Digits) == 1 && d.Digits[0] == 0
}

// Shortest is Generate with radix 10.
func Shortest(d ieee.Decomposed) (Digits, error) {
	return Generate(d, 10)
}

// Generate returns the shortest digit sequence in the given radix that reads
// back as the value d decomposes. The sign of d is ignored. Zero yields the
// single digit 0 with exponent 0.
func Generate(d ieee.Decomposed, radix int) (Digits, error) {
	if radix < MinRadix || radix > MaxRadix {
		return Digits{}, rterr.Newf(rterr.InvalidRadix, -1, "digits: radix %d out of range [%d, %d]", radix, MinRadix, MaxRadix)
	}
	if !d.IsFinite() {
		return Digits{}, rterr.New(rterr.NotFinite, -1, "digits: value is not finite (NaN or Infinity)")
	}
	if d.IsZero() {
		return Digits{Digits: []byte{0}, Exponent: 0, Radix: radix}, nil
	}

	g := newGenerator(d, radix)
	g.fixup(estimate(d, radix))
	return g.run()
}

// generator carries the scaled state: the value is r/s × radix^k, and
// mPlus/s, mMinus/s are the distances to the upper and lower half-way points.
type generator struct {
	r, s, mPlus, mMinus *bigint.Int
	radix               int
	bigRadix            *bigint.Int
	k                   int
	inclusive           bool
}

func newGenerator(d ieee.Decomposed, radix int) *generator {
	f, e := d.Mantissa, d.Exponent

	// At the bottom of a binade (f == 2^52) the double below is half as far
	// away as the double above, except in the lowest binade where the
	// spacing stays 2^MinExponent.
	lowerBoundary := f.Equal(bigint.Pow2(ieee.MantissaBits-1)) && e > ieee.MinExponent

	g := &generator{
		radix:     radix,
		bigRadix:  bigint.FromInt64(int64(radix)),
		inclusive: f.IsEven(),
	}
	switch {
	case e >= 0 && !lowerBoundary:
		be := bigint.Pow2(e)
		g.r = f.Mul(be).Lsh(1)
		g.s = bigint.FromInt64(2)
		g.mPlus = be
		g.mMinus = be
	case e >= 0:
		be := bigint.Pow2(e)
		g.r = f.Mul(be).Lsh(2)
		g.s = bigint.FromInt64(4)
		g.mPlus = be.Lsh(1)
		g.mMinus = be
	case !lowerBoundary:
		g.r = f.Lsh(1)
		g.s = bigint.Pow2(-e + 1)
		g.mPlus = bigint.One()
		g.mMinus = bigint.One()
	default:
		g.r = f.Lsh(2)
		g.s = bigint.Pow2(-e + 2)
		g.mPlus = bigint.FromInt64(2)
		g.mMinus = bigint.One()
	}
	return g
}

// estimate returns ceil(log_radix(f × 2^e)), possibly off by one.
func estimate(d ieee.Decomposed, radix int) int {
	f := float64(d.Mantissa.Int64())
	l := (math.Log(f) + float64(d.Exponent)*math.Ln2) / math.Log(float64(radix))
	return int(math.Ceil(l))
}

// fixup scales by radix^k0 and then corrects k until the upper half-way
// point lies in [radix^(k-1), radix^k), so the first digit is non-zero.
func (g *generator) fixup(k0 int) {
	g.k = k0
	if k0 >= 0 {
		g.s = g.s.Mul(bigint.Pow(g.bigRadix, k0))
	} else {
		p := bigint.Pow(g.bigRadix, -k0)
		g.r = g.r.Mul(p)
		g.mPlus = g.mPlus.Mul(p)
		g.mMinus = g.mMinus.Mul(p)
	}

	for g.highExceeds(g.r.Add(g.mPlus), g.s) {
		g.s = g.s.Mul(g.bigRadix)
		g.k++
	}
	for g.tooLow() {
		g.r = g.r.Mul(g.bigRadix)
		g.mPlus = g.mPlus.Mul(g.bigRadix)
		g.mMinus = g.mMinus.Mul(g.bigRadix)
		g.k--
	}
}

// highExceeds reports whether high reaches s.
func (g *generator) highExceeds(high, s *bigint.Int) bool {
	c := high.Cmp(s)
	if g.inclusive {
		return c >= 0
	}
	return c > 0
}

// tooLow reports whether every value in the rounding interval would start
// with a zero digit at the current scale.
func (g *generator) tooLow() bool {
	c := g.r.Add(g.mPlus).Mul(g.bigRadix).Cmp(g.s)
	if g.inclusive {
		return c < 0
	}
	return c <= 0
}

func (g *generator) run() (Digits, error) {
	out := make([]byte, 0, 20)
	for {
		if len(out) >= maxDigits {
			return Digits{}, rterr.Newf(rterr.DigitInvariant, len(out), "digits: no termination after %d digits", maxDigits)
		}

		g.r = g.r.Mul(g.bigRadix)
		g.mPlus = g.mPlus.Mul(g.bigRadix)
		g.mMinus = g.mMinus.Mul(g.bigRadix)

		d := 0
		for g.r.Cmp(g.s) >= 0 {
			g.r = g.r.Sub(g.s)
			d++
		}
		if d >= g.radix {
			return Digits{}, rterr.Newf(rterr.DigitInvariant, len(out), "digits: digit %d out of range for radix %d", d, g.radix)
		}

		low := g.r.Cmp(g.mMinus) < 0 || (g.inclusive && g.r.Equal(g.mMinus))
		high := g.highExceeds(g.r.Add(g.mPlus), g.s)

		if !low && !high {
			out = append(out, byte(d))
			continue
		}
		switch {
		case low && high:
			d = roundFinal(d, g.r.Lsh(1).Cmp(g.s))
		case high:
			d++
		}
		return g.finish(append(out, byte(d)))
	}
}

// roundFinal picks the last digit when both d and d+1 lie inside the
// rounding interval: the one closer to the value, and the even one on an
// exact tie.
func roundFinal(d, cmpTwiceRemainder int) int {
	switch {
	case cmpTwiceRemainder < 0:
		return d
	case cmpTwiceRemainder > 0:
		return d + 1
	case d%2 == 0:
		return d
	default:
		return d + 1
	}
}

// finish propagates a carry out of a rounded-up last digit and strips
// trailing zeros.
func (g *generator) finish(out []byte) (Digits, error) {
	k := g.k
	for i := len(out) - 1; i > 0 && int(out[i]) == g.radix; i-- {
		out[i] = 0
		out[i-1]++
	}
	if int(out[0]) == g.radix {
		out[0] = 0
		out = append([]byte{1}, out...)
		k++
	}
	for len(out) > 1 && out[len(out)-1] == 0 {
		out = out[:len(out)-1]
	}
	if out[0] == 0 {
		return Digits{}, rterr.New(rterr.DigitInvariant, 0, "digits: leading zero digit")
	}
	return Digits{Digits: out, Exponent: k, Radix: g.radix}, nil
}
