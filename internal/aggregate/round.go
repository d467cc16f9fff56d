package aggregate

import "math"

// Round2 rounds to 2 decimal places, half away from zero. Every rounded
// value in the reports goes through this one rule so midpoints reproduce.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
