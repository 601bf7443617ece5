package utils

import "math"

// comparePrecision is the number of decimals kept before threshold comparisons,
// enough to drop float subtraction noise such as 3.7-3.6 = 0.10000000000000009.
const comparePrecision = 9

// RoundTo rounds value to the given number of decimals, halves away from zero.
func RoundTo(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

// Exceeds reports whether value is strictly greater than threshold.
func Exceeds(value, threshold float64) bool {
	return RoundTo(value, comparePrecision) > threshold
}
