package prim

import (
	"math"
	"strconv"
	"strings"

	"github.com/lattice-substrate/lazynum/apply"
	"github.com/lattice-substrate/lazynum/bigint"
	"github.com/lattice-substrate/lazynum/ieee"
	"github.com/lattice-substrate/lazynum/numfmt"
)

func builtins() []*apply.Primitive {
	return []*apply.Primitive{
		// Machine integers.
		apply.Func2("quot", func(a, b any) (any, error) {
			x, y, err := int32Pair("quot", a, b)
			if err != nil {
				return nil, err
			}
			return Quot(x, y)
		}),
		apply.Func2("imul", func(a, b any) (any, error) {
			x, y, err := int32Pair("imul", a, b)
			if err != nil {
				return nil, err
			}
			return Imul(x, y), nil
		}),
		apply.Func2("addC", func(a, b any) (any, error) {
			x, y, err := int32Pair("addC", a, b)
			if err != nil {
				return nil, err
			}
			return AddC(x, y), nil
		}),
		apply.Func2("subC", func(a, b any) (any, error) {
			x, y, err := int32Pair("subC", a, b)
			if err != nil {
				return nil, err
			}
			return SubC(x, y), nil
		}),

		// Doubles.
		floatPrim("decodeDouble", func(x float64) any { return ieee.DecodeDouble(x) }),
		floatPrim("isDoubleNaN", func(x float64) any { return math.IsNaN(x) }),
		floatPrim("isDoubleInfinite", func(x float64) any { return math.IsInf(x, 0) }),
		floatPrim("isDoubleNegativeZero", func(x float64) any { return ieee.IsNegativeZero(x) }),
		floatPrim("rintDouble", func(x float64) any { return ieee.RoundHalfEven(x) }),
		floatPrim("showDouble", func(x float64) any { return numfmt.Show(x) }),
		floatPrim("showDoubleJS", func(x float64) any { return numfmt.ShowJS(x) }),
		floatPrim("sinh", func(x float64) any { return math.Sinh(x) }),
		floatPrim("cosh", func(x float64) any { return math.Cosh(x) }),
		floatPrim("tanh", func(x float64) any { return math.Tanh(x) }),
		apply.Func1("readDouble", func(a any) (any, error) {
			s, err := stringArg("readDouble", 0, a)
			if err != nil {
				return nil, err
			}
			x, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if perr != nil {
				return math.NaN(), nil
			}
			return x, nil
		}),

		// Floats.
		float32Prim("isFloatNaN", func(x float32) any { return math.IsNaN(float64(x)) }),
		float32Prim("isFloatInfinite", func(x float32) any { return math.IsInf(float64(x), 0) }),
		float32Prim("isFloatNegativeZero", func(x float32) any { return ieee.IsNegativeZero(float64(x)) }),
		float32Prim("rintFloat", func(x float32) any { return float32(ieee.RoundHalfEven(float64(x))) }),

		// Words.
		apply.Func2("eqWord64", func(a, b any) (any, error) {
			x, err := word64Arg("eqWord64", 0, a)
			if err != nil {
				return nil, err
			}
			y, err := word64Arg("eqWord64", 1, b)
			if err != nil {
				return nil, err
			}
			return x == y, nil
		}),
		apply.Func1("showInt", func(a any) (any, error) {
			n, err := intArg("showInt", 0, a)
			if err != nil {
				return nil, err
			}
			return strconv.Itoa(n), nil
		}),

		// Mutable variables.
		apply.Func1("newMutVar", func(a any) (any, error) {
			return NewMutVar(a), nil
		}),
		apply.Func1("readMutVar", func(a any) (any, error) {
			mv, err := mutVarArg("readMutVar", 0, a)
			if err != nil {
				return nil, err
			}
			return mv.X, nil
		}),
		apply.Func2("writeMutVar", func(a, b any) (any, error) {
			mv, err := mutVarArg("writeMutVar", 0, a)
			if err != nil {
				return nil, err
			}
			mv.X = b
			return nil, nil
		}),

		// Strings.
		apply.Func2("strEq", func(a, b any) (any, error) {
			x, y, err := stringPair("strEq", a, b)
			if err != nil {
				return nil, err
			}
			return x == y, nil
		}),
		apply.Func2("strOrd", func(a, b any) (any, error) {
			x, y, err := stringPair("strOrd", a, b)
			if err != nil {
				return nil, err
			}
			return strings.Compare(x, y), nil
		}),

		// Control.
		apply.Func2("catch", apply.Catch),

		// Integers.
		integerBinary("integerAdd", (*bigint.Int).Add),
		integerBinary("integerSub", (*bigint.Int).Sub),
		integerBinary("integerMul", (*bigint.Int).Mul),
		apply.Func2("integerPow", func(a, b any) (any, error) {
			base, err := integerArg("integerPow", 0, a)
			if err != nil {
				return nil, err
			}
			exp, err := intArg("integerPow", 1, b)
			if err != nil {
				return nil, err
			}
			return bigint.Pow(base, exp), nil
		}),
		apply.Func2("integerCmp", func(a, b any) (any, error) {
			x, err := integerArg("integerCmp", 0, a)
			if err != nil {
				return nil, err
			}
			y, err := integerArg("integerCmp", 1, b)
			if err != nil {
				return nil, err
			}
			return x.Cmp(y), nil
		}),
		apply.Func1("integerNeg", func(a any) (any, error) {
			x, err := integerArg("integerNeg", 0, a)
			if err != nil {
				return nil, err
			}
			return x.Neg(), nil
		}),
		apply.Func1("integerFromInt", func(a any) (any, error) {
			n, err := intArg("integerFromInt", 0, a)
			if err != nil {
				return nil, err
			}
			return bigint.FromInt64(int64(n)), nil
		}),
		apply.Func1("integerToInt", func(a any) (any, error) {
			x, err := integerArg("integerToInt", 0, a)
			if err != nil {
				return nil, err
			}
			return x.Int64(), nil
		}),
		apply.Func1("integerShow", func(a any) (any, error) {
			x, err := integerArg("integerShow", 0, a)
			if err != nil {
				return nil, err
			}
			return x.String(), nil
		}),
		apply.Func1("integerRead", func(a any) (any, error) {
			s, err := stringArg("integerRead", 0, a)
			if err != nil {
				return nil, err
			}
			return bigint.Parse(s, 10)
		}),
	}
}

func int32Pair(name string, a, b any) (int32, int32, error) {
	x, err := int32Arg(name, 0, a)
	if err != nil {
		return 0, 0, err
	}
	y, err := int32Arg(name, 1, b)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func stringPair(name string, a, b any) (string, string, error) {
	x, err := stringArg(name, 0, a)
	if err != nil {
		return "", "", err
	}
	y, err := stringArg(name, 1, b)
	if err != nil {
		return "", "", err
	}
	return x, y, nil
}

func floatPrim(name string, fn func(float64) any) *apply.Primitive {
	return apply.Func1(name, func(a any) (any, error) {
		x, err := floatArg(name, 0, a)
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	})
}

func float32Prim(name string, fn func(float32) any) *apply.Primitive {
	return apply.Func1(name, func(a any) (any, error) {
		x, err := float32Arg(name, 0, a)
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	})
}

func integerBinary(name string, op func(x, y *bigint.Int) *bigint.Int) *apply.Primitive {
	return apply.Func2(name, func(a, b any) (any, error) {
		x, err := integerArg(name, 0, a)
		if err != nil {
			return nil, err
		}
		y, err := integerArg(name, 1, b)
		if err != nil {
			return nil, err
		}
		return op(x, y), nil
	})
}
