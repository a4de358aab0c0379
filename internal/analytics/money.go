package analytics

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// PercentageUsed returns spent as a percentage of budget, rounded to two
// decimal places. It is 0 whenever budget <= 0.
func PercentageUsed(spent, budget float64) float64 {
	if budget <= 0 {
		return 0
	}
	return decimal.NewFromFloat(spent).
		Div(decimal.NewFromFloat(budget)).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

// Sum adds amounts exactly and returns the total rounded to cents.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.Round(2).InexactFloat64()
}

// Sub returns a-b rounded to cents.
func Sub(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// FormatNumber renders v without trailing zeros, as it appears in messages.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
