package numfmt

// roundTo rounds the digit sequence is to n digits in the given base, half
// to even. The result has n digits, or n+1 with a leading 1 when rounding
// carries out of the first digit; carry reports which.
func roundTo(base, n int, is []byte) (carry int, out []byte) {
	out = make([]byte, n, n+1)
	if len(is) <= n {
		copy(out, is)
		return 0, out
	}
	copy(out, is[:n])

	if roundsUp(base, n, is) {
		i := n - 1
		for ; i >= 0; i-- {
			out[i]++
			if int(out[i]) < base {
				break
			}
			out[i] = 0
		}
		if i < 0 {
			return 1, append([]byte{1}, out...)
		}
	}
	return 0, out
}

// roundsUp decides the digit at position n: above half rounds up, below
// half rounds down, and exactly half rounds towards an even digit n-1.
func roundsUp(base, n int, is []byte) bool {
	half := base / 2
	next := int(is[n])
	if base%2 != 0 {
		// Half is 0.hhh... recurring, never exact in a finite sequence.
		for _, d := range is[n:] {
			if int(d) != half {
				return int(d) > half
			}
		}
		return false
	}
	switch {
	case next != half:
		return next > half
	case tailNonZero(is[n+1:]):
		return true
	default:
		return n > 0 && is[n-1]%2 != 0
	}
}

func tailNonZero(is []byte) bool {
	for _, d := range is {
		if d != 0 {
			return true
		}
	}
	return false
}
