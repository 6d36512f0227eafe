// Package numfmt renders shortest digit sequences as text and provides the
// float-to-string pipeline built on ieee, digits and bigint:
//
//	FormatFloat(x) = Format(digits.Generate(ieee.Decompose(x), 10))
//
// Four notations are supported:
//
//	Fixed       123.456, 0.001, 100.0
//	Scientific  1.23456e2, 1.0e-3, 1.0e8
//	General     Scientific when the exponent is < 0 or > 7, Fixed otherwise
//	ECMA        ECMAScript Number::toString (1e+21, 0.000001, 100)
//
// The first three always show at least one digit on each side of the point.
// NaN, the infinities and negative zero are handled by dedicated branches.
package numfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/lattice-substrate/lazynum/digits"
	"github.com/lattice-substrate/lazynum/ieee"
	"github.com/lattice-substrate/lazynum/rterr"
	"github.com/lattice-substrate/lazynum/thunk"
)

// Style selects a notation.
type Style int

const (
	General Style = iota
	Fixed
	Scientific
	ECMA
)

var styleNames = [...]string{"general", "fixed", "scientific", "ecma"}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return "Style(" + strconv.Itoa(int(s)) + ")"
	}
	return styleNames[s]
}

// ParseStyle returns the style with the given name.
func ParseStyle(name string) (Style, error) {
	for i, n := range styleNames {
		if strings.EqualFold(name, n) {
			return Style(i), nil
		}
	}
	return 0, rterr.Newf(rterr.InvalidArgument, -1, "numfmt: unknown style %q", name)
}

// Shortest as a Precision requests every generated digit and nothing more.
const Shortest = -1

// Options controls Format.
type Options struct {
	Style Style

	// Precision is the number of digits after the point for Fixed, and
	// after the leading digit for Scientific, rounding half to even.
	// Shortest (any negative value) keeps the generated digits. ECMA
	// ignores it.
	Precision int
}

// DefaultOptions is General notation with shortest digits.
var DefaultOptions = Options{Style: General, Precision: Shortest}

// Text for the non-finite values.
const (
	NaNText    = "NaN"
	InfText    = "Infinity"
	NegInfText = "-Infinity"
)

// Format renders ds with an optional leading minus sign.
func Format(ds digits.Digits, negative bool, opts Options) (string, error) {
	if len(ds.Digits) == 0 {
		return "", rterr.New(rterr.DigitInvariant, -1, "numfmt: empty digit sequence")
	}
	if ds.Radix == 0 {
		ds.Radix = 10
	}

	var body string
	switch style := resolve(opts.Style, ds.Exponent); style {
	case Fixed:
		body = fixed(ds, opts.Precision)
	case Scientific:
		body = scientific(ds, opts.Precision)
	case ECMA:
		if ds.Radix != 10 {
			return "", rterr.Newf(rterr.InvalidArgument, -1, "numfmt: ecma notation needs radix 10, got %d", ds.Radix)
		}
		if ds.IsZero() {
			// ECMAScript prints -0 as "0".
			return "0", nil
		}
		body = formatECMA(ds)
	default:
		return "", rterr.Newf(rterr.InvalidArgument, -1, "numfmt: unknown style %s", style)
	}

	if negative {
		return "-" + body, nil
	}
	return body, nil
}

func resolve(s Style, exp int) Style {
	if s != General {
		return s
	}
	if exp < 0 || exp > 7 {
		return Scientific
	}
	return Fixed
}

// FormatDecomposed renders a decomposed float in the given radix.
func FormatDecomposed(d ieee.Decomposed, radix int, opts Options) (string, error) {
	switch {
	case d.IsNaN():
		return NaNText, nil
	case d.IsInf() && d.Negative():
		return NegInfText, nil
	case d.IsInf():
		return InfText, nil
	}
	ds, err := digits.Generate(d, radix)
	if err != nil {
		return "", err
	}
	return Format(ds, d.Negative(), opts)
}

// FormatFloat renders x in decimal.
func FormatFloat(x float64, opts Options) (string, error) {
	return FormatDecomposed(ieee.Decompose(x), 10, opts)
}

// Show renders x in General notation with shortest digits: 1.0, 0.1, 1.0e8,
// -0.0, NaN.
func Show(x float64) string {
	return must(FormatFloat(x, DefaultOptions))
}

// ShowJS renders x the way the ECMAScript toString does, with ".0" appended
// to finite integral results so they still read as floating point.
func ShowJS(x float64) string {
	s := must(FormatFloat(x, Options{Style: ECMA}))
	if math.IsNaN(x) || math.IsInf(x, 0) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// Lazy defers FormatFloat in a cell; the pipeline runs on first force.
func Lazy(x float64, opts Options) *thunk.Cell {
	return thunk.New(func() (any, error) {
		return FormatFloat(x, opts)
	})
}

// must fails loudly: with valid options the pipeline only errors on an
// internal invariant violation, and a wrong string must never be returned.
func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func appendDigits(buf []byte, ds []byte) []byte {
	for _, d := range ds {
		buf = append(buf, alphabet[d])
	}
	return buf
}

func appendZeros(buf []byte, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, '0')
	}
	return buf
}

func fixed(ds digits.Digits, prec int) string {
	if prec >= 0 {
		return fixedPrec(ds, prec)
	}
	var buf []byte
	e, is := ds.Exponent, ds.Digits
	if e <= 0 {
		buf = append(buf, '0', '.')
		buf = appendZeros(buf, -e)
		return string(appendDigits(buf, is))
	}
	if len(is) <= e {
		buf = appendDigits(buf, is)
		buf = appendZeros(buf, e-len(is))
		return string(append(buf, '.', '0'))
	}
	buf = appendDigits(buf, is[:e])
	buf = append(buf, '.')
	return string(appendDigits(buf, is[e:]))
}

func fixedPrec(ds digits.Digits, prec int) string {
	var buf []byte
	e, base := ds.Exponent, ds.Radix
	if e >= 0 {
		carry, is := roundTo(base, prec+e, ds.Digits)
		ls, rs := is[:e+carry], is[e+carry:]
		if len(ls) == 0 {
			buf = append(buf, '0')
		} else {
			buf = appendDigits(buf, ls)
		}
		if len(rs) > 0 {
			buf = append(buf, '.')
			buf = appendDigits(buf, rs)
		}
		return string(buf)
	}

	padded := make([]byte, -e, -e+len(ds.Digits))
	padded = append(padded, ds.Digits...)
	carry, is := roundTo(base, prec, padded)
	if carry == 0 {
		is = append([]byte{0}, is...)
	}
	buf = appendDigits(buf, is[:1])
	if len(is) > 1 {
		buf = append(buf, '.')
		buf = appendDigits(buf, is[1:])
	}
	return string(buf)
}

func scientific(ds digits.Digits, prec int) string {
	if prec >= 0 {
		return scientificPrec(ds, prec)
	}
	var buf []byte
	if ds.IsZero() {
		return "0.0e0"
	}
	buf = appendDigits(buf, ds.Digits[:1])
	buf = append(buf, '.')
	if len(ds.Digits) == 1 {
		buf = append(buf, '0')
	} else {
		buf = appendDigits(buf, ds.Digits[1:])
	}
	buf = append(buf, 'e')
	return string(strconv.AppendInt(buf, int64(ds.Exponent-1), 10))
}

func scientificPrec(ds digits.Digits, prec int) string {
	var buf []byte
	if ds.IsZero() {
		if prec == 0 {
			return "0e0"
		}
		buf = append(buf, '0', '.')
		buf = appendZeros(buf, prec)
		return string(append(buf, 'e', '0'))
	}

	carry, is := roundTo(ds.Radix, prec+1, ds.Digits)
	if carry > 0 {
		is = is[:len(is)-1]
	}
	buf = appendDigits(buf, is[:1])
	if prec > 0 {
		buf = append(buf, '.')
		buf = appendDigits(buf, is[1:])
	}
	buf = append(buf, 'e')
	return string(strconv.AppendInt(buf, int64(ds.Exponent-1+carry), 10))
}
