package analytics

import (
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

// Profile echoes the user's known attributes and the labels derived from
// them. Derived labels are omitted when their inputs are unknown.
type Profile struct {
	Salary                       *float64 `json:"salary,omitempty"`
	Age                          *int     `json:"age,omitempty"`
	Gender                       *string  `json:"gender,omitempty"`
	IsSingle                     *bool    `json:"is_single,omitempty"`
	IsFamilyProvider             *bool    `json:"is_family_provider,omitempty"`
	FamilyMembersCount           *int     `json:"family_members_count,omitempty"`
	LifeStage                    string   `json:"life_stage,omitempty"`
	RelationshipStatus           string   `json:"relationship_status,omitempty"`
	FinancialResponsibilityLevel string   `json:"financial_responsibility_level,omitempty"`
}

// BuildProfile derives the profile block for u. It returns nil for a nil
// user.
func BuildProfile(u *model.User) *Profile {
	if u == nil {
		return nil
	}

	p := &Profile{
		Salary:             u.Salary,
		Age:                u.Age,
		Gender:             u.Gender,
		IsSingle:           u.IsSingle,
		IsFamilyProvider:   u.IsFamilyProvider,
		FamilyMembersCount: u.FamilyMembersCount,
	}
	if u.Age != nil {
		p.LifeStage = LifeStage(*u.Age)
	}
	if u.IsSingle != nil {
		p.RelationshipStatus = "in_relationship"
		if *u.IsSingle {
			p.RelationshipStatus = "single"
		}
	}
	p.FinancialResponsibilityLevel = responsibilityLevel(u)
	return p
}

// LifeStage buckets an age into a coarse career stage.
func LifeStage(age int) string {
	switch {
	case age < 25:
		return "young_adult"
	case age < 35:
		return "early_career"
	case age < 45:
		return "mid_career"
	case age < 55:
		return "established_career"
	case age < 65:
		return "pre_retirement"
	default:
		return "retirement_age"
	}
}

func responsibilityLevel(u *model.User) string {
	if u.IsFamilyProvider == nil && u.IsSingle == nil {
		return ""
	}

	provider := u.IsFamilyProvider != nil && *u.IsFamilyProvider
	partnered := u.IsSingle != nil && !*u.IsSingle
	dependents := 0
	if u.FamilyMembersCount != nil {
		dependents = *u.FamilyMembersCount
	}

	switch {
	case provider && dependents > 2:
		return "high"
	case provider:
		return "moderate_to_high"
	case partnered:
		return "moderate"
	default:
		return "individual"
	}
}

// Income relates the user's salary to spending within a window.
type Income struct {
	MonthlySalary         float64 `json:"monthly_salary"`
	PeriodIncome          float64 `json:"period_income"`
	SpendingToIncomeRatio float64 `json:"spending_to_income_ratio"`
	RemainingIncome       float64 `json:"remaining_income"`
}

// BuildIncome scales a monthly salary to kind and compares it with spent.
// The ratio is a percentage and is 0 when there is no income.
func BuildIncome(monthlySalary float64, kind period.Kind, spent float64) *Income {
	periodIncome := Round2(monthlySalary * kind.MonthMultiplier())
	return &Income{
		MonthlySalary:         monthlySalary,
		PeriodIncome:          periodIncome,
		SpendingToIncomeRatio: PercentageUsed(spent, periodIncome),
		RemainingIncome:       Sub(periodIncome, spent),
	}
}
