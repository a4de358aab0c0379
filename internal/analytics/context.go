package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

// ErrInvalidOptions is returned when context options cannot be interpreted.
var ErrInvalidOptions = errors.New("invalid context options")

// ContextOptions selects what goes into a FinancialContext. The zero value
// means the current month with no history or daily series.
type ContextOptions struct {
	Period                period.Kind `json:"period,omitempty"`
	Date                  string      `json:"date,omitempty"`
	CategoryID            string      `json:"category_id,omitempty"`
	Detailed              bool        `json:"detailed,omitempty"`
	IncludeHistory        bool        `json:"include_history,omitempty"`
	IncludeDailyBreakdown bool        `json:"include_daily_breakdown,omitempty"`
	TargetSavings         *float64    `json:"target_savings,omitempty"`
}

// WantsHistory reports whether the previous period must be loaded.
func (o ContextOptions) WantsHistory() bool {
	return o.IncludeHistory || o.Detailed
}

// WantsDailyBreakdown reports whether a per-day series must be included.
func (o ContextOptions) WantsDailyBreakdown() bool {
	return o.IncludeDailyBreakdown || o.Detailed
}

// Window resolves the options to a period kind, anchor day and range.
func (o ContextOptions) Window(asOf time.Time) (period.Kind, time.Time, period.Range, error) {
	kind := o.Period.OrDefault()
	anchor := period.Day(asOf)
	if o.Date != "" {
		d, err := period.ParseDate(o.Date)
		if err != nil {
			return "", time.Time{}, period.Range{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		anchor = d
	}
	return kind, anchor, period.Resolve(kind, anchor), nil
}

// CategoryContext is one budget's position as seen by the assistant.
type CategoryContext struct {
	Category           string  `json:"category"`
	CategoryID         string  `json:"category_id"`
	Budget             float64 `json:"budget"`
	Spent              float64 `json:"spent"`
	Remaining          float64 `json:"remaining"`
	PercentageUsed     float64 `json:"percentage_used"`
	TransactionCount   int     `json:"transaction_count"`
	AverageTransaction float64 `json:"average_transaction"`
}

// DailySpend is a per-day total in the assistant context.
type DailySpend struct {
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	Transactions int     `json:"transactions"`
}

// PeriodTotal is the spend of a comparison window.
type PeriodTotal struct {
	DateRange  DateRange `json:"date_range"`
	TotalSpent float64   `json:"total_spent"`
}

// FinancialContext is the structured payload handed to the assistant.
type FinancialContext struct {
	UserID            string            `json:"user_id"`
	AnalysisPeriod    period.Kind       `json:"analysis_period"`
	DateRange         DateRange         `json:"date_range"`
	TotalBudget       float64           `json:"total_budget"`
	TotalSpent        float64           `json:"total_spent"`
	CategoriesSummary []CategoryContext `json:"categories_summary"`
	UserProfile       *Profile          `json:"user_profile,omitempty"`
	Income            *Income           `json:"income,omitempty"`
	DailyBreakdown    []DailySpend      `json:"daily_breakdown,omitempty"`
	PreviousPeriod    *PeriodTotal      `json:"previous_period,omitempty"`
	TargetSavings     *float64          `json:"target_savings,omitempty"`
}

// ContextInput carries the records a context is computed from. Entries
// must cover at least the current window; PreviousEntries is only read when
// history is requested.
type ContextInput struct {
	User            *model.User
	Budgets         []*model.Budget
	Categories      map[string]*model.Category
	Entries         []*model.Entry
	PreviousEntries []*model.Entry
}

// BuildContext assembles the financial context for userID. It performs no
// I/O and fails only on options that cannot be interpreted.
func BuildContext(userID string, in ContextInput, opts ContextOptions, asOf time.Time) (*FinancialContext, error) {
	kind, anchor, rng, err := opts.Window(asOf)
	if err != nil {
		return nil, err
	}

	filter := SpendFilter{CategoryID: opts.CategoryID}
	summary := Summarize(in.Entries, rng, filter)

	fc := &FinancialContext{
		UserID:            userID,
		AnalysisPeriod:    kind,
		DateRange:         NewDateRange(rng),
		TotalSpent:        summary.Total,
		CategoriesSummary: []CategoryContext{},
		UserProfile:       BuildProfile(in.User),
		TargetSavings:     opts.TargetSavings,
	}

	budgetAmounts := make([]float64, 0, len(in.Budgets))
	for _, b := range in.Budgets {
		if opts.CategoryID != "" && b.CategoryID != opts.CategoryID {
			continue
		}
		spent := summary.Spent(b.CategoryID)
		count := summary.Count(b.CategoryID)
		avg := 0.0
		if count > 0 {
			avg = Round2(spent / float64(count))
		}
		fc.CategoriesSummary = append(fc.CategoriesSummary, CategoryContext{
			Category:           CategoryName(in.Categories, b.CategoryID),
			CategoryID:         b.CategoryID,
			Budget:             b.Amount,
			Spent:              spent,
			Remaining:          Sub(b.Amount, spent),
			PercentageUsed:     PercentageUsed(spent, b.Amount),
			TransactionCount:   count,
			AverageTransaction: avg,
		})
		budgetAmounts = append(budgetAmounts, b.Amount)
	}
	fc.TotalBudget = Sum(budgetAmounts...)

	if in.User != nil && in.User.Salary != nil {
		fc.Income = BuildIncome(*in.User.Salary, kind, fc.TotalSpent)
	}

	if opts.WantsDailyBreakdown() {
		inRange := filterEntries(in.Entries, rng, filter)
		fc.DailyBreakdown = []DailySpend{}
		for _, d := range DailyBreakdown(inRange) {
			fc.DailyBreakdown = append(fc.DailyBreakdown, DailySpend{
				Date:         d.Date,
				Amount:       d.Amount,
				Transactions: d.TransactionCount,
			})
		}
	}

	if opts.WantsHistory() {
		prev := period.Previous(kind, anchor)
		fc.PreviousPeriod = &PeriodTotal{
			DateRange:  NewDateRange(prev),
			TotalSpent: Summarize(in.PreviousEntries, prev, SpendFilter{}).Total,
		}
	}

	return fc, nil
}

func filterEntries(entries []*model.Entry, rng period.Range, filter SpendFilter) []*model.Entry {
	out := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if rng.Contains(e.Date) && filter.match(e) {
			out = append(out, e)
		}
	}
	return out
}
