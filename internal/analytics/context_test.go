package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestLifeStage(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{18, "young_adult"},
		{24, "young_adult"},
		{25, "early_career"},
		{34, "early_career"},
		{35, "mid_career"},
		{45, "established_career"},
		{55, "pre_retirement"},
		{64, "pre_retirement"},
		{65, "retirement_age"},
		{90, "retirement_age"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LifeStage(tt.age), "age=%d", tt.age)
	}
}

func TestBuildProfile(t *testing.T) {
	tests := []struct {
		name           string
		user           *model.User
		relationship   string
		responsibility string
	}{
		{"no attributes", &model.User{ID: "u1"}, "", ""},
		{"single", &model.User{IsSingle: ptr(true)}, "single", "individual"},
		{"partnered", &model.User{IsSingle: ptr(false)}, "in_relationship", "moderate"},
		{"provider small family", &model.User{IsFamilyProvider: ptr(true), FamilyMembersCount: ptr(2)}, "", "moderate_to_high"},
		{"provider large family", &model.User{IsSingle: ptr(false), IsFamilyProvider: ptr(true), FamilyMembersCount: ptr(3)}, "in_relationship", "high"},
		{"provider without count", &model.User{IsFamilyProvider: ptr(true)}, "", "moderate_to_high"},
		{"not a provider", &model.User{IsFamilyProvider: ptr(false)}, "", "individual"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildProfile(tt.user)
			require.NotNil(t, p)
			assert.Equal(t, tt.relationship, p.RelationshipStatus)
			assert.Equal(t, tt.responsibility, p.FinancialResponsibilityLevel)
			assert.Empty(t, p.LifeStage)
		})
	}

	assert.Nil(t, BuildProfile(nil))
	assert.Equal(t, "mid_career", BuildProfile(&model.User{Age: ptr(40)}).LifeStage)
}

func TestBuildIncome(t *testing.T) {
	inc := BuildIncome(3000, period.Weekly, 150)
	assert.Equal(t, 750.0, inc.PeriodIncome)
	assert.Equal(t, 20.0, inc.SpendingToIncomeRatio)
	assert.Equal(t, 600.0, inc.RemainingIncome)

	inc = BuildIncome(0, period.Monthly, 150)
	assert.Equal(t, 0.0, inc.PeriodIncome)
	assert.Equal(t, 0.0, inc.SpendingToIncomeRatio)
	assert.Equal(t, -150.0, inc.RemainingIncome)

	inc = BuildIncome(1000, period.Yearly, 0)
	assert.Equal(t, 12000.0, inc.PeriodIncome)
}

func contextInput(t *testing.T) ContextInput {
	return ContextInput{
		User: &model.User{ID: "u1", Salary: ptr(4000.0), Age: ptr(30), IsSingle: ptr(true)},
		Budgets: []*model.Budget{
			budget("housing", 1200),
			budget("food-dining", 400),
		},
		Categories: categories,
		Entries: []*model.Entry{
			entry(t, "housing", 1200, "2025-03-01"),
			entry(t, "food-dining", 100, "2025-03-02"),
			entry(t, "food-dining", 50, "2025-03-09"),
			entry(t, "shopping", 50, "2025-03-10"),
		},
		PreviousEntries: []*model.Entry{
			entry(t, "housing", 1200, "2025-02-01"),
			entry(t, "food-dining", 80, "2025-02-11"),
		},
	}
}

func TestBuildContext(t *testing.T) {
	fc, err := BuildContext("u1", contextInput(t), ContextOptions{}, asOf)
	require.NoError(t, err)

	assert.Equal(t, period.Monthly, fc.AnalysisPeriod)
	assert.Equal(t, DateRange{Start: "2025-03-01", End: "2025-03-31"}, fc.DateRange)
	assert.Equal(t, 1600.0, fc.TotalBudget)
	// every entry in range counts, budgeted or not
	assert.Equal(t, 1400.0, fc.TotalSpent)

	require.Len(t, fc.CategoriesSummary, 2)
	food := fc.CategoriesSummary[1]
	assert.Equal(t, CategoryContext{
		Category:           "Food & Dining",
		CategoryID:         "food-dining",
		Budget:             400,
		Spent:              150,
		Remaining:          250,
		PercentageUsed:     37.5,
		TransactionCount:   2,
		AverageTransaction: 75,
	}, food)

	require.NotNil(t, fc.UserProfile)
	assert.Equal(t, "early_career", fc.UserProfile.LifeStage)
	assert.Equal(t, "single", fc.UserProfile.RelationshipStatus)
	assert.Equal(t, "individual", fc.UserProfile.FinancialResponsibilityLevel)

	require.NotNil(t, fc.Income)
	assert.Equal(t, 4000.0, fc.Income.PeriodIncome)
	assert.Equal(t, 35.0, fc.Income.SpendingToIncomeRatio)
	assert.Equal(t, 2600.0, fc.Income.RemainingIncome)

	assert.Nil(t, fc.DailyBreakdown)
	assert.Nil(t, fc.PreviousPeriod)
	assert.Nil(t, fc.TargetSavings)
}

func TestBuildContextOptions(t *testing.T) {
	in := contextInput(t)

	t.Run("detailed implies history and daily breakdown", func(t *testing.T) {
		fc, err := BuildContext("u1", in, ContextOptions{Detailed: true}, asOf)
		require.NoError(t, err)
		require.NotNil(t, fc.PreviousPeriod)
		assert.Equal(t, DateRange{Start: "2025-02-01", End: "2025-02-28"}, fc.PreviousPeriod.DateRange)
		assert.Equal(t, 1280.0, fc.PreviousPeriod.TotalSpent)
		require.Len(t, fc.DailyBreakdown, 4)
		assert.Equal(t, DailySpend{Date: "2025-03-01", Amount: 1200, Transactions: 1}, fc.DailyBreakdown[0])
	})

	t.Run("category filter", func(t *testing.T) {
		fc, err := BuildContext("u1", in, ContextOptions{CategoryID: "food-dining", IncludeHistory: true}, asOf)
		require.NoError(t, err)
		require.Len(t, fc.CategoriesSummary, 1)
		assert.Equal(t, 400.0, fc.TotalBudget)
		assert.Equal(t, 150.0, fc.TotalSpent)
		assert.Equal(t, 1280.0, fc.PreviousPeriod.TotalSpent)
	})

	t.Run("explicit date and period", func(t *testing.T) {
		fc, err := BuildContext("u1", in, ContextOptions{Period: period.Weekly, Date: "2025-03-05", IncludeDailyBreakdown: true}, asOf)
		require.NoError(t, err)
		assert.Equal(t, DateRange{Start: "2025-03-03", End: "2025-03-09"}, fc.DateRange)
		assert.Equal(t, 50.0, fc.TotalSpent)
		assert.Equal(t, 1000.0, fc.Income.PeriodIncome)
		assert.Len(t, fc.DailyBreakdown, 1)
	})

	t.Run("target savings echoed", func(t *testing.T) {
		fc, err := BuildContext("u1", in, ContextOptions{TargetSavings: ptr(500.0)}, asOf)
		require.NoError(t, err)
		assert.Equal(t, 500.0, *fc.TargetSavings)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := BuildContext("u1", in, ContextOptions{Date: "15/03/2025"}, asOf)
		assert.ErrorIs(t, err, ErrInvalidOptions)
	})

	t.Run("no user profile", func(t *testing.T) {
		in := in
		in.User = nil
		fc, err := BuildContext("u1", in, ContextOptions{}, asOf)
		require.NoError(t, err)
		assert.Nil(t, fc.UserProfile)
		assert.Nil(t, fc.Income)
	})
}

func TestAssemblerGather(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.UpsertUser(ctx, &model.User{ID: "u1", Salary: ptr(2000.0)}))
	housing := budget("housing", 1000)
	require.NoError(t, s.CreateBudget(ctx, housing))
	for _, e := range []*model.Entry{
		entry(t, "housing", 300, "2025-03-03"),
		entry(t, "housing", 200, "2025-02-20"),
	} {
		require.NoError(t, s.CreateEntry(ctx, e))
	}

	fc, err := NewAssembler(s).Gather(ctx, "u1", ContextOptions{IncludeHistory: true}, asOf)
	require.NoError(t, err)
	assert.Equal(t, 300.0, fc.TotalSpent)
	assert.Equal(t, 200.0, fc.PreviousPeriod.TotalSpent)
	assert.Equal(t, 15.0, fc.Income.SpendingToIncomeRatio)

	require.NoError(t, s.CreateEntry(ctx, entry(t, "food-dining", 50, "2025-02-21")))
	fc, err = NewAssembler(s).Gather(ctx, "u1", ContextOptions{CategoryID: "housing", IncludeHistory: true}, asOf)
	require.NoError(t, err)
	assert.Equal(t, 300.0, fc.TotalSpent)
	assert.Equal(t, 250.0, fc.PreviousPeriod.TotalSpent)

	fc, err = NewAssembler(s).Gather(ctx, "nobody", ContextOptions{}, asOf)
	require.NoError(t, err)
	assert.Nil(t, fc.UserProfile)
	assert.Empty(t, fc.CategoriesSummary)
}

type failingSource struct {
	*store.MemoryStore
}

func (failingSource) ListBudgets(context.Context, string) ([]*model.Budget, error) {
	return nil, errors.New("connection reset")
}

func TestAssemblerGatherPropagatesErrors(t *testing.T) {
	_, err := NewAssembler(failingSource{store.NewMemoryStore()}).Gather(context.Background(), "u1", ContextOptions{}, asOf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load budgets")
}
