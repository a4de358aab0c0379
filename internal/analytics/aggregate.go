package analytics

import (
	"sort"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/shopspring/decimal"
)

// SpendFilter narrows an aggregation to one category and/or one budget.
type SpendFilter struct {
	CategoryID string
	BudgetID   string
}

func (f SpendFilter) match(e *model.Entry) bool {
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.BudgetID != "" && e.BudgetID != f.BudgetID {
		return false
	}
	return true
}

// SpendSummary is the result of aggregating entries over a window.
type SpendSummary struct {
	Total      float64
	ByCategory map[string]float64
	Counts     map[string]int
}

// Spent returns the total for categoryID, 0 when nothing was recorded.
func (s SpendSummary) Spent(categoryID string) float64 {
	return s.ByCategory[categoryID]
}

// Count returns the number of entries recorded for categoryID.
func (s SpendSummary) Count(categoryID string) int {
	return s.Counts[categoryID]
}

// Summarize sums the amounts of entries dated within rng that match filter,
// overall and per category.
func Summarize(entries []*model.Entry, rng period.Range, filter SpendFilter) SpendSummary {
	total := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	counts := make(map[string]int)

	for _, e := range entries {
		if !rng.Contains(e.Date) || !filter.match(e) {
			continue
		}
		amount := decimal.NewFromFloat(e.Amount)
		total = total.Add(amount)
		byCategory[e.CategoryID] = byCategory[e.CategoryID].Add(amount)
		counts[e.CategoryID]++
	}

	summary := SpendSummary{
		Total:      total.Round(2).InexactFloat64(),
		ByCategory: make(map[string]float64, len(byCategory)),
		Counts:     counts,
	}
	for id, v := range byCategory {
		summary.ByCategory[id] = v.Round(2).InexactFloat64()
	}
	return summary
}

// DailyTotal is the spend recorded on one calendar day.
type DailyTotal struct {
	Date             string  `json:"date"`
	Amount           float64 `json:"amount"`
	TransactionCount int     `json:"transaction_count"`
}

// DailyBreakdown groups entries by calendar day in ascending date order.
func DailyBreakdown(entries []*model.Entry) []DailyTotal {
	totals := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, e := range entries {
		day := e.DateString()
		totals[day] = totals[day].Add(decimal.NewFromFloat(e.Amount))
		counts[day]++
	}

	days := make([]string, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailyTotal, 0, len(days))
	for _, day := range days {
		out = append(out, DailyTotal{
			Date:             day,
			Amount:           totals[day].Round(2).InexactFloat64(),
			TransactionCount: counts[day],
		})
	}
	return out
}

// AverageAmount returns the mean entry amount rounded to cents, 0 for none.
func AverageAmount(entries []*model.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	return total.Div(decimal.NewFromInt(int64(len(entries)))).Round(2).InexactFloat64()
}

// SortByDate orders entries by date, then time of day, then creation.
func SortByDate(entries []*model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
