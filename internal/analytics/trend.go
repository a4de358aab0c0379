package analytics

import "github.com/shopspring/decimal"

// Trend is the coarse direction of a spending series.
type Trend string

const (
	TrendInsufficientData Trend = "insufficient_data"
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
)

var (
	increaseFactor = decimal.NewFromFloat(1.1)
	decreaseFactor = decimal.NewFromFloat(0.9)
)

// DetectTrend compares the sum of the second half of a date ordered series
// with the sum of the first half. The first half holds floor(n/2) points, so
// an odd remainder lands in the second half. More than 10% growth is
// increasing, more than 10% shrinkage is decreasing.
func DetectTrend(amounts []float64) Trend {
	if len(amounts) < 2 {
		return TrendInsufficientData
	}

	mid := len(amounts) / 2
	first, second := decimal.Zero, decimal.Zero
	for i, a := range amounts {
		if i < mid {
			first = first.Add(decimal.NewFromFloat(a))
		} else {
			second = second.Add(decimal.NewFromFloat(a))
		}
	}

	switch {
	case second.GreaterThan(first.Mul(increaseFactor)):
		return TrendIncreasing
	case second.LessThan(first.Mul(decreaseFactor)):
		return TrendDecreasing
	default:
		return TrendStable
	}
}
