package analytics

import (
	"fmt"
	"testing"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) period.Range {
	t.Helper()
	d, err := period.ParseDate(s)
	require.NoError(t, err)
	return period.Range{Start: d, End: d}
}

func entry(t *testing.T, categoryID string, amount float64, date string) *model.Entry {
	t.Helper()
	d, err := period.ParseDate(date)
	require.NoError(t, err)
	return &model.Entry{
		ID:         categoryID + date,
		UserID:     "u1",
		CategoryID: categoryID,
		BudgetID:   "b-" + categoryID,
		Amount:     amount,
		Date:       d,
		Time:       "12:00:00",
		StatsType:  period.Daily,
	}
}

func budget(categoryID string, amount float64) *model.Budget {
	return &model.Budget{ID: "b-" + categoryID, UserID: "u1", CategoryID: categoryID, Name: categoryID, Amount: amount}
}

func march(t *testing.T) period.Range {
	rng := day(t, "2025-03-15")
	return period.Resolve(period.Monthly, rng.Start)
}

var categories = model.CategoryMap(model.DefaultCategories())

func TestSummarize(t *testing.T) {
	entries := []*model.Entry{
		entry(t, "housing", 0.1, "2025-03-01"),
		entry(t, "housing", 0.2, "2025-03-31"),
		entry(t, "food-dining", 12.5, "2025-03-10"),
		entry(t, "food-dining", 99, "2025-04-01"),
	}

	s := Summarize(entries, march(t), SpendFilter{})
	assert.Equal(t, 12.8, s.Total)
	assert.Equal(t, 0.3, s.Spent("housing"))
	assert.Equal(t, 2, s.Count("housing"))
	assert.Equal(t, 1, s.Count("food-dining"))
	assert.Zero(t, s.Spent("education"))

	s = Summarize(entries, march(t), SpendFilter{CategoryID: "food-dining"})
	assert.Equal(t, 12.5, s.Total)
}

func TestBuildOverviewEmptyRange(t *testing.T) {
	ov := BuildOverview(period.Monthly, march(t), []*model.Budget{budget("housing", 1000)}, categories, nil)

	assert.Equal(t, 0.0, ov.Overview.Spent)
	assert.Equal(t, 0.0, ov.Overview.PercentageUsed)
	assert.Equal(t, StatusGood, ov.Overview.Status)
	assert.NotNil(t, ov.Warnings)
	assert.Empty(t, ov.Warnings)
	assert.NotNil(t, ov.Insights)
	assert.Empty(t, ov.Insights)
	assert.Equal(t, DateRange{Start: "2025-03-01", End: "2025-03-31"}, ov.DateRange)
}

func TestBuildOverview(t *testing.T) {
	budgets := []*model.Budget{
		budget("housing", 1000),
		budget("food-dining", 200),
		budget("education", 100),
		budget("entertainment", 50),
	}
	entries := []*model.Entry{
		entry(t, "housing", 950, "2025-03-02"),
		entry(t, "food-dining", 50, "2025-03-03"),
		entry(t, "entertainment", 60, "2025-03-04"),
		// no budget, excluded from totals
		entry(t, "shopping", 500, "2025-03-05"),
	}

	ov := BuildOverview(period.Monthly, march(t), budgets, categories, entries)

	assert.Equal(t, 1350.0, ov.Overview.Budget)
	assert.Equal(t, 1060.0, ov.Overview.Spent)
	assert.Equal(t, 290.0, ov.Overview.Remaining)
	assert.Equal(t, 78.52, ov.Overview.PercentageUsed)
	assert.Equal(t, StatusWarning, ov.Overview.Status)

	require.Len(t, ov.CategoryBreakdown, 4)
	assert.Equal(t, "Housing", ov.CategoryBreakdown[0].CategoryName)
	assert.Equal(t, StatusCritical, ov.CategoryBreakdown[0].Status)
	assert.Equal(t, StatusGood, ov.CategoryBreakdown[1].Status)
	assert.Equal(t, StatusGood, ov.CategoryBreakdown[2].Status)
	assert.Equal(t, StatusExceeded, ov.CategoryBreakdown[3].Status)

	require.Len(t, ov.Warnings, 2)
	assert.Equal(t, Warning{Category: "Housing", Message: "You've used 95% of your budget in Housing", Severity: SeverityWarning}, ov.Warnings[0])
	assert.Equal(t, SeverityCritical, ov.Warnings[1].Severity)

	assert.Equal(t, []Insight{
		{Type: InsightHighestSpending, Message: "Your highest spending category is Housing with 950 spent"},
		{Type: InsightPositive, Message: "You're managing 1 categories well, staying under 75% of budget"},
		{Type: InsightWarning, Message: "1 categories are at risk of exceeding budget"},
	}, ov.Insights)
}

func TestGenerateInsightsTiesKeepFirst(t *testing.T) {
	insights := GenerateInsights([]CategoryBreakdown{
		{CategoryName: "A", BudgetSnapshot: BudgetSnapshot{Spent: 10, PercentageUsed: 10}},
		{CategoryName: "B", BudgetSnapshot: BudgetSnapshot{Spent: 10, PercentageUsed: 10}},
	})
	require.NotEmpty(t, insights)
	assert.Equal(t, "Your highest spending category is A with 10 spent", insights[0].Message)
}

func TestBuildCategoryStats(t *testing.T) {
	food := categories["food-dining"]
	entries := []*model.Entry{
		entry(t, "food-dining", 20, "2025-03-01"),
		entry(t, "food-dining", 10, "2025-03-01"),
		entry(t, "food-dining", 60, "2025-03-20"),
		entry(t, "housing", 500, "2025-03-20"),
	}
	entries[1].ID = "second"

	stats := BuildCategoryStats(period.Monthly, march(t), food, budget("food-dining", 100), entries)

	assert.Equal(t, CategoryRef{ID: "food-dining", Name: "Food & Dining"}, stats.Category)
	assert.Equal(t, 90.0, stats.Summary.Spent)
	assert.Equal(t, 90.0, stats.Summary.PercentageUsed)
	assert.Equal(t, StatusCritical, stats.Summary.Status)
	assert.Equal(t, 3, stats.Summary.TransactionCount)
	assert.Equal(t, 30.0, stats.Summary.AverageDailySpending)
	assert.Equal(t, []DailyTotal{
		{Date: "2025-03-01", Amount: 30, TransactionCount: 2},
		{Date: "2025-03-20", Amount: 60, TransactionCount: 1},
	}, stats.DailyBreakdown)
	assert.Equal(t, TrendIncreasing, stats.Trend)
	require.NotNil(t, stats.Warning)
	assert.Equal(t, "You've used 90% of your budget", stats.Warning.Message)
	assert.Equal(t, SeverityWarning, stats.Warning.Severity)
}

func TestBuildCategoryStatsNoEntries(t *testing.T) {
	stats := BuildCategoryStats(period.Weekly, period.Resolve(period.Weekly, day(t, "2025-03-12").Start), categories["housing"], budget("housing", 0), nil)

	assert.Equal(t, DateRange{Start: "2025-03-10", End: "2025-03-16"}, stats.DateRange)
	assert.Equal(t, 0.0, stats.Summary.PercentageUsed)
	assert.Equal(t, StatusGood, stats.Summary.Status)
	assert.Equal(t, TrendInsufficientData, stats.Trend)
	assert.Empty(t, stats.DailyBreakdown)
	assert.Nil(t, stats.Warning)
}

func TestBuildCategoryStatsTrendPerEntry(t *testing.T) {
	food := categories["food-dining"]

	tests := []struct {
		name    string
		amounts []float64
		dates   []string
		want    Trend
	}{
		{
			name:    "two entries on the first day",
			amounts: []float64{10, 20, 5},
			dates:   []string{"2025-03-02", "2025-03-02", "2025-03-05"},
			want:    TrendIncreasing,
		},
		{
			name:    "every entry on one day",
			amounts: []float64{10, 20, 30},
			dates:   []string{"2025-03-02", "2025-03-02", "2025-03-02"},
			want:    TrendIncreasing,
		},
		{
			name:    "single entry",
			amounts: []float64{10},
			dates:   []string{"2025-03-02"},
			want:    TrendInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]*model.Entry, 0, len(tt.amounts))
			for i, a := range tt.amounts {
				e := entry(t, "food-dining", a, tt.dates[i])
				e.Time = fmt.Sprintf("12:00:%02d", i)
				entries = append(entries, e)
			}

			stats := BuildCategoryStats(period.Monthly, march(t), food, budget("food-dining", 1000), entries)
			assert.Equal(t, tt.want, stats.Trend)
		})
	}
}
