package numfmt

import (
	"strconv"

	"github.com/lattice-substrate/lazynum/digits"
)

// formatECMA lays out a non-zero decimal digit sequence following
// Number::toString: k digits with the value 0.d1..dk × 10^n.
func formatECMA(ds digits.Digits) string {
	k, n := len(ds.Digits), ds.Exponent

	var buf []byte
	switch {
	case k <= n && n <= 21:
		// Integer, padded with zeros.
		buf = appendDigits(buf, ds.Digits)
		buf = appendZeros(buf, n-k)
	case 0 < n && n <= 21:
		buf = appendDigits(buf, ds.Digits[:n])
		buf = append(buf, '.')
		buf = appendDigits(buf, ds.Digits[n:])
	case -6 < n && n <= 0:
		buf = append(buf, '0', '.')
		buf = appendZeros(buf, -n)
		buf = appendDigits(buf, ds.Digits)
	default:
		buf = appendDigits(buf, ds.Digits[:1])
		if k > 1 {
			buf = append(buf, '.')
			buf = appendDigits(buf, ds.Digits[1:])
		}
		buf = append(buf, 'e')
		if n-1 >= 0 {
			buf = append(buf, '+')
		}
		buf = strconv.AppendInt(buf, int64(n-1), 10)
	}
	return string(buf)
}
