package utils

import "math"

// Round rounds a number to 2 decimal places for displayed monetary values
func Round(num float64) float64 {
	return math.Round(num*MoneyPrecision) / MoneyPrecision
}
