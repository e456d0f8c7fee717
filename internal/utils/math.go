package utils

import (
	"cmp"
	"math"
)

// RoundN rounds f to the given number of decimals.
func RoundN[T ~float32 | ~float64](f T, decimals int) T {
	pow := math.Pow(10, float64(decimals))
	return T(math.Round(float64(f)*pow) / pow)
}

// Clamp between lo and hi.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Max returns the larger of two values (works for numbers and strings)
func Max[T cmp.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two values
func Min[T cmp.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
