package analytics

import (
	"fmt"
	"sort"
)

// InsightType tags a generated insight.
type InsightType string

const (
	InsightHighestSpending InsightType = "highest_spending"
	InsightPositive        InsightType = "positive"
	InsightWarning         InsightType = "warning"
)

// Insight is a short observation about a category breakdown.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}

// GenerateInsights derives observations from a category breakdown: the
// highest spending category, how many categories are comfortably under
// budget and how many are at risk.
func GenerateInsights(breakdown []CategoryBreakdown) []Insight {
	insights := []Insight{}

	if len(breakdown) > 0 {
		sorted := make([]CategoryBreakdown, len(breakdown))
		copy(sorted, breakdown)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Spent > sorted[j].Spent
		})
		if top := sorted[0]; top.Spent > 0 {
			insights = append(insights, Insight{
				Type:    InsightHighestSpending,
				Message: fmt.Sprintf("Your highest spending category is %s with %s spent", top.CategoryName, FormatNumber(top.Spent)),
			})
		}
	}

	var underControl, atRisk int
	for _, c := range breakdown {
		if c.PercentageUsed > 0 && c.PercentageUsed < warningThreshold {
			underControl++
		}
		if c.PercentageUsed >= criticalThreshold && c.PercentageUsed < exceededThreshold {
			atRisk++
		}
	}

	if underControl > 0 {
		insights = append(insights, Insight{
			Type:    InsightPositive,
			Message: fmt.Sprintf("You're managing %d categories well, staying under 75%% of budget", underControl),
		})
	}
	if atRisk > 0 {
		insights = append(insights, Insight{
			Type:    InsightWarning,
			Message: fmt.Sprintf("%d categories are at risk of exceeding budget", atRisk),
		})
	}

	return insights
}
