package utils

import "math"

// IsFinite reports whether v is neither infinite nor NaN.
func IsFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// FiniteOr returns v when it is finite, fallback otherwise.
func FiniteOr(v, fallback float64) float64 {
	if IsFinite(v) {
		return v
	}
	return fallback
}

// NearlyZero reports whether |v| is within tolerance.
func NearlyZero(v, tolerance float64) bool {
	return math.Abs(v) <= tolerance
}
