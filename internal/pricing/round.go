package pricing

import "math"

// RoundToNearestFive snaps a final sell price onto a base-5 grid, rounding
// half up at a remainder of 2.5. It is applied to grand totals and per-job
// cart prices only, never to intermediate cost components.
func RoundToNearestFive(value float64) float64 {
	remainder := math.Mod(value, 5)
	if remainder == 0 {
		return value
	}
	if remainder < 2.5 {
		return value - remainder
	}
	return value + (5 - remainder)
}

// round2 rounds to 2 decimals, matching the display rounding the discount
// and VAT stage applies at every intermediate step.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
