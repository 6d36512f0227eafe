// Package bigint implements arbitrary-precision signed integers stored as a
// sign and a little-endian magnitude of base 2^32 digits.
//
// Values are immutable: every operation returns a new Int (or one of its
// operands, when the result is equal to it) and never modifies an operand.
// The representation is always normalized: a zero value has sign 0 and an
// empty magnitude, and a non-zero magnitude has no trailing zero digit.
package bigint

import (
	"math/bits"
	"strings"

	"github.com/lattice-substrate/lazynum/rterr"
)

// Int is an arbitrary-precision signed integer. The zero value is 0.
type Int struct {
	sign int8     // -1, 0, +1
	mag  []uint32 // little-endian, normalized
}

var (
	zero = &Int{}
	one  = &Int{sign: 1, mag: []uint32{1}}
)

// Zero returns 0.
func Zero() *Int { return zero }

// One returns 1.
func One() *Int { return one }

// FromInt64 returns n as an Int.
func FromInt64(n int64) *Int {
	switch {
	case n == 0:
		return zero
	case n < 0:
		// -n overflows for MinInt64; uint64 negation does not.
		return &Int{sign: -1, mag: magFromUint64(uint64(-(n + 1)) + 1)}
	default:
		return &Int{sign: 1, mag: magFromUint64(uint64(n))}
	}
}

// FromUint64 returns u as an Int.
func FromUint64(u uint64) *Int {
	if u == 0 {
		return zero
	}
	return &Int{sign: 1, mag: magFromUint64(u)}
}

func magFromUint64(u uint64) []uint32 {
	if u>>32 == 0 {
		return []uint32{uint32(u)}
	}
	return []uint32{uint32(u), uint32(u >> 32)}
}

func newInt(sign int8, mag []uint32) *Int {
	mag = normalize(mag)
	if len(mag) == 0 {
		return zero
	}
	return &Int{sign: sign, mag: mag}
}

func normalize(mag []uint32) []uint32 {
	n := len(mag)
	for n > 0 && mag[n-1] == 0 {
		n--
	}
	return mag[:n]
}

// Sign returns -1, 0 or +1.
func (x *Int) Sign() int { return int(x.sign) }

// IsZero reports whether x == 0.
func (x *Int) IsZero() bool { return x.sign == 0 }

// IsEven reports whether x is divisible by two.
func (x *Int) IsEven() bool {
	return x.sign == 0 || x.mag[0]&1 == 0
}

// Digits returns a copy of the magnitude digits, least significant first.
func (x *Int) Digits() []uint32 {
	return append([]uint32(nil), x.mag...)
}

// BitLen returns the length of the absolute value of x in bits.
func (x *Int) BitLen() int {
	if x.sign == 0 {
		return 0
	}
	top := len(x.mag) - 1
	return top*32 + bits.Len32(x.mag[top])
}

// Int64 returns the low 64 bits of x as a two's complement int64. The result
// is only meaningful when x fits in an int64.
func (x *Int) Int64() int64 {
	var u uint64
	if len(x.mag) > 0 {
		u = uint64(x.mag[0])
	}
	if len(x.mag) > 1 {
		u |= uint64(x.mag[1]) << 32
	}
	if x.sign < 0 {
		return -int64(u)
	}
	return int64(u)
}

// IsInt64 reports whether x can be represented as an int64.
func (x *Int) IsInt64() bool {
	if len(x.mag) <= 1 {
		return true
	}
	if len(x.mag) > 2 {
		return false
	}
	u := uint64(x.mag[0]) | uint64(x.mag[1])<<32
	if x.sign < 0 {
		return u <= 1<<63
	}
	return u < 1<<63
}

// Neg returns -x.
func (x *Int) Neg() *Int {
	if x.sign == 0 {
		return x
	}
	return &Int{sign: -x.sign, mag: x.mag}
}

// Abs returns |x|.
func (x *Int) Abs() *Int {
	if x.sign >= 0 {
		return x
	}
	return &Int{sign: 1, mag: x.mag}
}

// Cmp compares x and y and returns -1, 0 or +1.
func (x *Int) Cmp(y *Int) int {
	switch {
	case x.sign < y.sign:
		return -1
	case x.sign > y.sign:
		return 1
	}
	c := cmpMag(x.mag, y.mag)
	if x.sign < 0 {
		return -c
	}
	return c
}

// Equal reports whether x == y.
func (x *Int) Equal(y *Int) bool { return x.Cmp(y) == 0 }

// Add returns x + y.
func (x *Int) Add(y *Int) *Int {
	switch {
	case x.sign == 0:
		return y
	case y.sign == 0:
		return x
	case x.sign == y.sign:
		return newInt(x.sign, addMag(x.mag, y.mag))
	}
	switch c := cmpMag(x.mag, y.mag); {
	case c == 0:
		return zero
	case c > 0:
		return newInt(x.sign, subMag(x.mag, y.mag))
	default:
		return newInt(y.sign, subMag(y.mag, x.mag))
	}
}

// Sub returns x - y.
func (x *Int) Sub(y *Int) *Int {
	return x.Add(y.Neg())
}

// Mul returns x * y.
func (x *Int) Mul(y *Int) *Int {
	if x.sign == 0 || y.sign == 0 {
		return zero
	}
	return newInt(x.sign*y.sign, mulMag(x.mag, y.mag))
}

// MulSmall returns x * m.
func (x *Int) MulSmall(m uint32) *Int {
	if x.sign == 0 || m == 0 {
		return zero
	}
	return newInt(x.sign, mulMag(x.mag, []uint32{m}))
}

// QuoRemSmall returns the quotient x / d truncated toward zero and the
// magnitude of the remainder. d must not be zero.
func (x *Int) QuoRemSmall(d uint32) (*Int, uint32) {
	if d == 0 {
		rterr.Fatal(rterr.InvalidArgument, -1, "bigint: division by zero")
	}
	q := make([]uint32, len(x.mag))
	var r uint64
	for i := len(x.mag) - 1; i >= 0; i-- {
		cur := r<<32 | uint64(x.mag[i])
		q[i] = uint32(cur / uint64(d))
		r = cur % uint64(d)
	}
	return newInt(x.sign, q), uint32(r)
}

// Lsh returns x << n.
func (x *Int) Lsh(n uint) *Int {
	if x.sign == 0 || n == 0 {
		return x
	}
	words, shift := int(n/32), n%32
	out := make([]uint32, len(x.mag)+words+1)
	if shift == 0 {
		copy(out[words:], x.mag)
	} else {
		var carry uint32
		for i, d := range x.mag {
			out[i+words] = d<<shift | carry
			carry = d >> (32 - shift)
		}
		out[len(x.mag)+words] = carry
	}
	return newInt(x.sign, out)
}

// String returns the decimal representation of x.
func (x *Int) String() string {
	return x.Text(10)
}

const digitChars = "0123456789abcdefghijklmnopqrstuvwxyz"

// Text returns the representation of x in the given base, 2 <= base <= 36.
func (x *Int) Text(base int) string {
	if base < 2 || base > len(digitChars) {
		rterr.Fatal(rterr.InvalidRadix, -1, "bigint: base %d out of range", base)
	}
	if x.sign == 0 {
		return "0"
	}
	var rev []byte
	q := x.Abs()
	for !q.IsZero() {
		var r uint32
		q, r = q.QuoRemSmall(uint32(base))
		rev = append(rev, digitChars[r])
	}
	var b strings.Builder
	b.Grow(len(rev) + 1)
	if x.sign < 0 {
		b.WriteByte('-')
	}
	for i := len(rev) - 1; i >= 0; i-- {
		b.WriteByte(rev[i])
	}
	return b.String()
}

// Parse reads a signed integer in the given base.
func Parse(s string, base int) (*Int, error) {
	if base < 2 || base > len(digitChars) {
		return nil, rterr.Newf(rterr.InvalidRadix, -1, "bigint: base %d out of range", base)
	}
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return nil, rterr.New(rterr.InvalidArgument, -1, "bigint: empty number")
	}
	acc := zero
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(digitChars, lower(s[i]))
		if d < 0 || d >= base {
			return nil, rterr.Newf(rterr.InvalidArgument, i, "bigint: invalid digit %q", s[i])
		}
		acc = acc.MulSmall(uint32(base)).Add(FromInt64(int64(d)))
	}
	if neg {
		acc = acc.Neg()
	}
	return acc, nil
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func cmpMag(a, b []uint32) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func addMag(a, b []uint32) []uint32 {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]uint32, len(a)+1)
	var carry uint64
	for i := range a {
		s := uint64(a[i]) + carry
		if i < len(b) {
			s += uint64(b[i])
		}
		out[i] = uint32(s)
		carry = s >> 32
	}
	out[len(a)] = uint32(carry)
	return out
}

// subMag returns a - b; requires a >= b.
func subMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a))
	var borrow uint32
	for i := range a {
		var bi uint32
		if i < len(b) {
			bi = b[i]
		}
		d := a[i] - bi - borrow
		// Borrow out when the true difference is negative.
		if a[i] < bi || (a[i] == bi && borrow == 1) {
			borrow = 1
		} else {
			borrow = 0
		}
		out[i] = d
	}
	if borrow != 0 {
		rterr.Fatal(rterr.InternalError, -1, "bigint: magnitude underflow")
	}
	return out
}

// mulDigit returns the 64-bit product of a and b as (hi, lo), built from
// 16-bit half-digit partial products so no intermediate exceeds 32 bits.
func mulDigit(a, b uint32) (hi, lo uint32) {
	al, ah := a&0xffff, a>>16
	bl, bh := b&0xffff, b>>16

	ll := al * bl
	lh := al * bh
	hl := ah * bl
	hh := ah * bh

	lo = ll + lh<<16
	var c uint32
	if lo < ll {
		c++
	}
	t := lo
	lo += hl << 16
	if lo < t {
		c++
	}
	hi = hh + lh>>16 + hl>>16 + c
	return hi, lo
}

func mulMag(a, b []uint32) []uint32 {
	out := make([]uint32, len(a)+len(b))
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		var carry uint32
		for j, bj := range b {
			hi, lo := mulDigit(ai, bj)
			s := uint64(out[i+j]) + uint64(lo) + uint64(carry)
			out[i+j] = uint32(s)
			carry = hi + uint32(s>>32)
		}
		out[i+len(b)] = carry
	}
	return out
}
