package core

import "math"

const (
	defaultEpsilon = 1e-12
	centsPerOctave = 1200.0
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// CentsToRatio converts a pitch offset in cents to a frequency ratio.
// Zero cents yields exactly 1.
func CentsToRatio(cents float64) float64 {
	if cents == 0 {
		return 1
	}
	return mathPower2(cents / centsPerOctave)
}

// RatioToCents converts a frequency ratio to cents.
// Returns NaN for non-positive ratios.
func RatioToCents(ratio float64) float64 {
	if ratio <= 0 {
		return math.NaN()
	}
	return centsPerOctave * math.Log2(ratio)
}

// MsToSamples converts a duration in milliseconds to a whole number of
// samples at sampleRate. Negative and non-finite durations map to 0.
func MsToSamples(ms, sampleRate float64) int {
	if !(ms > 0) || math.IsInf(ms, 0) || !(sampleRate > 0) {
		return 0
	}
	return int(math.Round(sampleRate * ms / 1000))
}
