package assistant

import (
	"strings"
	"testing"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

func TestBuildSystemPromptNilContext(t *testing.T) {
	if got := BuildSystemPrompt(nil); got != basePrompt {
		t.Errorf("BuildSystemPrompt(nil) = %q", got)
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	age, members := 40, 3
	provider := true
	target := 250.0
	fc := &analytics.FinancialContext{
		AnalysisPeriod: period.Monthly,
		DateRange:      analytics.DateRange{Start: "2025-03-01", End: "2025-03-31"},
		TotalBudget:    1600,
		TotalSpent:     1400,
		CategoriesSummary: []analytics.CategoryContext{
			{Category: "Housing", CategoryID: "housing", Budget: 1200, Spent: 1200, Remaining: 0, PercentageUsed: 100, TransactionCount: 1, AverageTransaction: 1200},
		},
		UserProfile: &analytics.Profile{
			Age:                          &age,
			LifeStage:                    "mid_career",
			IsFamilyProvider:             &provider,
			FamilyMembersCount:           &members,
			FinancialResponsibilityLevel: "high",
		},
		Income: &analytics.Income{MonthlySalary: 4000, PeriodIncome: 4000, SpendingToIncomeRatio: 35, RemainingIncome: 2600},
		DailyBreakdown: []analytics.DailySpend{
			{Date: "2025-03-01", Amount: 1200, Transactions: 1},
		},
		PreviousPeriod: &analytics.PeriodTotal{
			DateRange:  analytics.DateRange{Start: "2025-02-01", End: "2025-02-28"},
			TotalSpent: 1000,
		},
		TargetSavings: &target,
	}

	got := BuildSystemPrompt(fc)

	for _, want := range []string{
		basePrompt,
		"Current Financial Context:",
		"Analysis Period: monthly",
		"Date Range: 2025-03-01 to 2025-03-31",
		"- Total Budget: $1,600.00",
		"- Remaining: $200.00",
		"- Percentage Used: 87.5%",
		"- Housing: Budget $1,200.00, Spent $1,200.00 (100%), Remaining $0.00, 1 transactions, Avg $1,200.00 per transaction",
		"- Age: 40",
		"- Life Stage: mid career",
		"- Family Provider: yes, supporting 3 family members",
		"- Financial Responsibility: high",
		"- Spending To Income: 35%",
		"Daily Spending Pattern:\n- 2025-03-01: $1,200.00 (1 transactions)",
		"- Period: 2025-02-01 to 2025-02-28",
		"- Change: $400.00 (40%)",
		"Savings Goal: $250.00",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q\n%s", want, got)
		}
	}
}

func TestBuildSystemPromptOmitsAbsentSections(t *testing.T) {
	got := BuildSystemPrompt(&analytics.FinancialContext{
		AnalysisPeriod: period.Weekly,
		PreviousPeriod: &analytics.PeriodTotal{TotalSpent: 0},
	})

	for _, absent := range []string{"Category Breakdown:", "User Profile:", "Income:", "Daily Spending Pattern:", "Savings Goal:"} {
		if strings.Contains(got, absent) {
			t.Errorf("prompt should not contain %q", absent)
		}
	}
	if !strings.Contains(got, "- Change: $0.00 (0%)") {
		t.Errorf("zero previous spend should report 0%% change:\n%s", got)
	}
}
