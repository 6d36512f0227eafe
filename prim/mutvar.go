package prim

// MutVar is a mutable reference cell. It is the only mutable state the
// primitives expose; the stored value is kept as given, unforced.
type MutVar struct {
	X any
}

// NewMutVar returns a cell holding v.
func NewMutVar(v any) *MutVar {
	return &MutVar{X: v}
}

func mutVarArg(prim string, i int, v any) (*MutVar, error) {
	v, err := forceArg(v)
	if err != nil {
		return nil, err
	}
	mv, ok := v.(*MutVar)
	if !ok {
		return nil, argError(prim, i, v, "*prim.MutVar")
	}
	return mv, nil
}
