package utils

// CondChain is an expression-style if/else-if/else: the first matching
// branch wins.
type CondChain[T any] struct {
	matched bool
	value   T
}

// If starts a chain; use it where a ternary would read better than a
// four-line if, as in utils.If(path == "", "stdout").Else(path).
func If[T any](cond bool, v T) CondChain[T] {
	return CondChain[T]{matched: cond, value: v}
}

func (c CondChain[T]) ElseIf(cond bool, v T) CondChain[T] {
	if c.matched || !cond {
		return c
	}
	return CondChain[T]{matched: true, value: v}
}

func (c CondChain[T]) Else(v T) T {
	if !c.matched {
		return v
	}
	return c.value
}
