package analytics

import (
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

// DateRange is a resolved window rendered as calendar days.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDateRange renders r as YYYY-MM-DD bounds.
func NewDateRange(r period.Range) DateRange {
	return DateRange{Start: r.StartDate(), End: r.EndDate()}
}

// CategoryBreakdown is one budget's position within an overview window.
type CategoryBreakdown struct {
	BudgetID     string `json:"budget_id"`
	BudgetName   string `json:"budget_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	BudgetSnapshot
}

// Overview is the all-budgets rollup for one window.
type Overview struct {
	Period            period.Kind         `json:"period"`
	DateRange         DateRange           `json:"date_range"`
	Overview          BudgetSnapshot      `json:"overview"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	Warnings          []Warning           `json:"warnings"`
	Insights          []Insight           `json:"insights"`
}

// BuildOverview rolls every budget up against the spend recorded in rng.
// Totals only cover categories the user has budgeted; entries in other
// categories do not count towards total_spent.
func BuildOverview(kind period.Kind, rng period.Range, budgets []*model.Budget, categories map[string]*model.Category, entries []*model.Entry) *Overview {
	summary := Summarize(entries, rng, SpendFilter{})

	out := &Overview{
		Period:            kind,
		DateRange:         NewDateRange(rng),
		CategoryBreakdown: make([]CategoryBreakdown, 0, len(budgets)),
		Warnings:          []Warning{},
	}

	budgetAmounts := make([]float64, 0, len(budgets))
	spentAmounts := make([]float64, 0, len(budgets))
	for _, b := range budgets {
		spent := summary.Spent(b.CategoryID)
		name := CategoryName(categories, b.CategoryID)
		row := CategoryBreakdown{
			BudgetID:       b.ID,
			BudgetName:     b.Name,
			CategoryID:     b.CategoryID,
			CategoryName:   name,
			BudgetSnapshot: Snapshot(b.Amount, spent),
		}
		out.CategoryBreakdown = append(out.CategoryBreakdown, row)
		budgetAmounts = append(budgetAmounts, b.Amount)
		spentAmounts = append(spentAmounts, spent)

		pct := row.PercentageUsed
		if w := newWarning(pct, name, "You've used "+FormatNumber(pct)+"% of your budget in "+name); w != nil {
			out.Warnings = append(out.Warnings, *w)
		}
	}

	out.Overview = Snapshot(Sum(budgetAmounts...), Sum(spentAmounts...))
	out.Insights = GenerateInsights(out.CategoryBreakdown)
	return out
}

// CategoryName resolves a category's display name, falling back to its id.
func CategoryName(categories map[string]*model.Category, id string) string {
	if c, ok := categories[id]; ok && c != nil {
		return c.Name
	}
	return id
}

// CategoryRef identifies a category in responses.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategorySummary is the detail view of one budget in a window.
type CategorySummary struct {
	BudgetSnapshot
	AverageDailySpending float64 `json:"average_daily_spending"`
	TransactionCount     int     `json:"transaction_count"`
}

// CategoryStats is the single-category rollup with its daily series.
type CategoryStats struct {
	Category       CategoryRef     `json:"category"`
	Period         period.Kind     `json:"period"`
	DateRange      DateRange       `json:"date_range"`
	Summary        CategorySummary `json:"summary"`
	DailyBreakdown []DailyTotal    `json:"daily_breakdown"`
	Trend          Trend           `json:"trend"`
	Warning        *Warning        `json:"warning"`
}

// BuildCategoryStats reports one budget against the entries of its category
// dated within rng, including a per-day series and the trend of its entries.
func BuildCategoryStats(kind period.Kind, rng period.Range, category *model.Category, budget *model.Budget, entries []*model.Entry) *CategoryStats {
	inRange := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.CategoryID == category.ID && rng.Contains(e.Date) {
			inRange = append(inRange, e)
		}
	}
	SortByDate(inRange)

	summary := Summarize(inRange, rng, SpendFilter{CategoryID: category.ID})
	snapshot := Snapshot(budget.Amount, summary.Total)

	// The trend runs over individual entries, not the per-day totals.
	series := make([]float64, 0, len(inRange))
	for _, e := range inRange {
		series = append(series, e.Amount)
	}

	return &CategoryStats{
		Category:  CategoryRef{ID: category.ID, Name: category.Name},
		Period:    kind,
		DateRange: NewDateRange(rng),
		Summary: CategorySummary{
			BudgetSnapshot:       snapshot,
			AverageDailySpending: AverageAmount(inRange),
			TransactionCount:     len(inRange),
		},
		DailyBreakdown: DailyBreakdown(inRange),
		Trend:          DetectTrend(series),
		Warning:        UsageWarning(snapshot.PercentageUsed),
	}
}
