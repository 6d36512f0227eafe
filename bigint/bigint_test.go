package bigint

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/lazynum/rterr"
)

// randInt returns a random Int of up to words digits together with its
// math/big twin.
func randInt(rng *rand.Rand, words int) (*Int, *big.Int) {
	n := rng.Intn(words + 1)
	mag := make([]uint32, n)
	for i := range mag {
		switch rng.Intn(4) {
		case 0:
			mag[i] = 0
		case 1:
			mag[i] = math.MaxUint32
		default:
			mag[i] = rng.Uint32()
		}
	}
	sign := int8(1)
	if rng.Intn(2) == 0 {
		sign = -1
	}
	x := newInt(sign, mag)
	return x, toBig(x)
}

func toBig(x *Int) *big.Int {
	b := new(big.Int)
	for i := len(x.mag) - 1; i >= 0; i-- {
		b.Lsh(b, 32)
		b.Or(b, big.NewInt(int64(x.mag[i])))
	}
	if x.sign < 0 {
		b.Neg(b)
	}
	return b
}

func requireNormalized(t *testing.T, x *Int) {
	t.Helper()
	if x.sign == 0 {
		require.Empty(t, x.mag, "zero with non-empty magnitude: %s", spew.Sdump(x))
		return
	}
	require.NotEmpty(t, x.mag, "non-zero sign with empty magnitude: %s", spew.Sdump(x))
	require.NotZero(t, x.mag[len(x.mag)-1], "trailing zero digit: %s", spew.Sdump(x))
}

func TestArithmeticMatchesMathBig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a, ab := randInt(rng, 6)
		b, bb := randInt(rng, 6)

		sum := a.Add(b)
		requireNormalized(t, sum)
		require.Equal(t, new(big.Int).Add(ab, bb).String(), sum.String())

		diff := a.Sub(b)
		requireNormalized(t, diff)
		require.Equal(t, new(big.Int).Sub(ab, bb).String(), diff.String())

		prod := a.Mul(b)
		requireNormalized(t, prod)
		require.Equal(t, new(big.Int).Mul(ab, bb).String(), prod.String())

		require.Equal(t, ab.Cmp(bb), a.Cmp(b))
		require.Equal(t, ab.Bit(0) == 0, a.IsEven())
		require.Equal(t, ab.BitLen(), a.BitLen())
	}
}

func TestRingLaws(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		a, _ := randInt(rng, 5)
		b, _ := randInt(rng, 5)
		c, _ := randInt(rng, 5)

		require.True(t, a.Add(b).Equal(b.Add(a)), "commutative add")
		require.True(t, a.Add(b).Add(c).Equal(a.Add(b.Add(c))), "associative add")
		require.True(t, a.Add(b).Sub(b).Equal(a), "add then subtract")
		require.True(t, a.Mul(FromInt64(0)).Equal(FromInt64(0)), "multiply by zero")
		require.True(t, a.Mul(b).Equal(b.Mul(a)), "commutative mul")
		require.True(t, a.Mul(b.Add(c)).Equal(a.Mul(b).Add(a.Mul(c))), "distributive")
		require.True(t, a.Neg().Neg().Equal(a), "double negation")
		require.True(t, a.Add(a.Neg()).IsZero(), "additive inverse")
	}
}

func TestMachineIntRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, math.MaxInt32, math.MinInt32,
		math.MaxUint32, -math.MaxUint32, math.MaxInt64, math.MinInt64}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		cases = append(cases, int64(rng.Uint64()))
	}
	for _, n := range cases {
		x := FromInt64(n)
		requireNormalized(t, x)
		require.True(t, x.IsInt64(), "%d", n)
		require.Equal(t, n, x.Int64())
		require.Equal(t, big.NewInt(n).String(), x.String())
	}
}

func TestInt64Truncates(t *testing.T) {
	x := Pow2(64).Add(FromInt64(5))
	require.False(t, x.IsInt64())
	require.Equal(t, int64(5), x.Int64())
	require.False(t, Pow2(63).IsInt64())
	require.True(t, Pow2(63).Neg().IsInt64())
}

func TestZeroIsCanonical(t *testing.T) {
	z := FromInt64(7).Sub(FromInt64(7))
	require.Equal(t, 0, z.Sign())
	require.True(t, z.IsZero())
	require.True(t, z.IsEven())
	require.Equal(t, "0", z.String())
	require.Equal(t, 0, z.BitLen())
	require.Same(t, Zero(), z.Neg())
	requireNormalized(t, FromUint64(1<<40).Sub(FromUint64(1<<40)))
	requireNormalized(t, newInt(1, []uint32{0, 0, 0}))
}

func TestMulDigitHalfProducts(t *testing.T) {
	vals := []uint32{0, 1, 2, 0xffff, 0x10000, 0xffff0000, 0x7fffffff, 0x80000000, math.MaxUint32}
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		vals = append(vals, rng.Uint32())
	}
	for _, a := range vals {
		for _, b := range vals {
			hi, lo := mulDigit(a, b)
			want := uint64(a) * uint64(b)
			require.Equal(t, want, uint64(hi)<<32|uint64(lo), "%#x * %#x", a, b)
		}
	}
}

func TestQuoRemSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 300; i++ {
		a, ab := randInt(rng, 4)
		d := rng.Uint32()%1000 + 1
		q, r := a.QuoRemSmall(d)
		wq, wr := new(big.Int).QuoRem(ab, big.NewInt(int64(d)), new(big.Int))
		require.Equal(t, wq.String(), q.String())
		require.Equal(t, new(big.Int).Abs(wr).Uint64(), uint64(r))
	}
}

func TestLsh(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 300; i++ {
		a, ab := randInt(rng, 4)
		n := uint(rng.Intn(130))
		require.Equal(t, new(big.Int).Lsh(ab, n).String(), a.Lsh(n).String())
	}
}

func TestTextAndParse(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		a, ab := randInt(rng, 4)
		for _, base := range []int{2, 10, 16, 36} {
			s := a.Text(base)
			require.Equal(t, ab.Text(base), s)
			back, err := Parse(s, base)
			require.NoError(t, err)
			require.True(t, back.Equal(a))
		}
	}

	_, err := Parse("12x", 10)
	require.Equal(t, rterr.InvalidArgument, rterr.ClassOf(err))
	_, err = Parse("", 10)
	require.Equal(t, rterr.InvalidArgument, rterr.ClassOf(err))
	_, err = Parse("1", 37)
	require.Equal(t, rterr.InvalidRadix, rterr.ClassOf(err))

	v, err := Parse("+FF", 16)
	require.NoError(t, err)
	require.Equal(t, int64(255), v.Int64())
}

func TestOperandsAreNotMutated(t *testing.T) {
	a := FromUint64(math.MaxUint64)
	b := FromInt64(-12345)
	aDigits, bDigits := a.Digits(), b.Digits()
	_ = a.Add(b)
	_ = a.Sub(b)
	_ = a.Mul(b)
	_ = a.Lsh(37)
	_, _ = a.QuoRemSmall(7)
	_ = b.Neg()
	require.Equal(t, aDigits, a.Digits())
	require.Equal(t, bDigits, b.Digits())
	require.Equal(t, -1, b.Sign())
}
