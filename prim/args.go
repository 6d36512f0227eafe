package prim

import (
	"math"

	"github.com/lattice-substrate/lazynum/bigint"
	"github.com/lattice-substrate/lazynum/rterr"
	"github.com/lattice-substrate/lazynum/thunk"
)

func argError(prim string, i int, v any, want string) error {
	return rterr.Newf(rterr.InvalidArgument, i, "prim: %s: argument is %T, want %s", prim, v, want)
}

func forceArg(v any) (any, error) {
	return thunk.Force(v)
}

func int32Arg(prim string, i int, v any) (int32, error) {
	v, err := forceArg(v)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int32:
		return n, nil
	case int:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, rterr.Newf(rterr.InvalidArgument, i, "prim: %s: %d does not fit in 32 bits", prim, n)
		}
		return int32(n), nil
	case int64:
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, rterr.Newf(rterr.InvalidArgument, i, "prim: %s: %d does not fit in 32 bits", prim, n)
		}
		return int32(n), nil
	}
	return 0, argError(prim, i, v, "int32")
}

func intArg(prim string, i int, v any) (int, error) {
	v, err := forceArg(v)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	}
	return 0, argError(prim, i, v, "int")
}

func floatArg(prim string, i int, v any) (float64, error) {
	v, err := forceArg(v)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	}
	return 0, argError(prim, i, v, "float64")
}

func float32Arg(prim string, i int, v any) (float32, error) {
	v, err := forceArg(v)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float32:
		return x, nil
	case float64:
		return float32(x), nil
	case int:
		return float32(x), nil
	}
	return 0, argError(prim, i, v, "float32")
}

func word64Arg(prim string, i int, v any) (uint64, error) {
	v, err := forceArg(v)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case uint64:
		return n, nil
	case int64:
		return uint64(n), nil
	case int:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	}
	return 0, argError(prim, i, v, "uint64")
}

func stringArg(prim string, i int, v any) (string, error) {
	v, err := forceArg(v)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", argError(prim, i, v, "string")
	}
	return s, nil
}

func integerArg(prim string, i int, v any) (*bigint.Int, error) {
	v, err := forceArg(v)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case *bigint.Int:
		return n, nil
	case int:
		return bigint.FromInt64(int64(n)), nil
	case int64:
		return bigint.FromInt64(n), nil
	}
	return nil, argError(prim, i, v, "*bigint.Int")
}
