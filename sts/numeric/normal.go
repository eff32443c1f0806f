package numeric

import "math"

// Normal returns Φ(x), the standard normal CDF, equal to
// 0.5*(1+erf(x/√2)) to within 1 ULP (spec.md §4.1).
func Normal(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// Erfc is the complementary error function, borrowed directly from the
// standard math library per spec.md §4.1.
func Erfc(x float64) float64 {
	return math.Erfc(x)
}
