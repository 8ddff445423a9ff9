package core

import "math"

const defaultEpsilon = 1e-12

// Bounds outside which a stored filter value is treated as garbage.
const (
	badValueFloor = 1e-15
	badValueCeil  = 1e15
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	return math.Min(math.Max(value, min), max)
}

// NearlyEqual reports whether a and b are equal within eps, absolutely for
// small magnitudes and relatively for large ones.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	if largest := math.Max(math.Abs(a), math.Abs(b)); largest > 0 {
		return diff/largest <= eps
	}

	return false
}

// IsBadValue reports whether x is NaN or has a magnitude outside
// [1e-15, 1e15]. Such values must never survive in IIR feedback state:
// denormals degrade into CPU stalls and overflow creep never decays.
func IsBadValue(x float64) bool {
	if math.IsNaN(x) {
		return true
	}

	ax := math.Abs(x)

	return ax < badValueFloor || ax > badValueCeil
}

// FlushBadValues converts NaN, denormal-range and overflow-range values to
// exact zero, passing everything else through unchanged.
func FlushBadValues(x float64) float64 {
	if IsBadValue(x) {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
