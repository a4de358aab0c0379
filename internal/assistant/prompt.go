package assistant

import (
	"strings"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const basePrompt = `You are an expert financial advisor and budgeting assistant. Your role is to help users manage their personal finances, understand their spending patterns, and make informed financial decisions.

You should:
- Provide clear, actionable financial advice
- Be specific with numbers and recommendations
- Highlight both positive habits and areas for improvement
- Warn about potential budget overruns or concerning spending patterns
- Suggest realistic savings strategies
- Be encouraging and supportive while being honest about financial realities
- Use clear, non-technical language that anyone can understand`

var printer = message.NewPrinter(language.English)

func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

func pct(v float64) string {
	return analytics.FormatNumber(analytics.Round2(v)) + "%"
}

// BuildSystemPrompt renders the assistant persona followed by the user's
// financial context. A nil context yields the persona alone.
func BuildSystemPrompt(fc *analytics.FinancialContext) string {
	if fc == nil {
		return basePrompt
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\nCurrent Financial Context:\n")
	printer.Fprintf(&b, "Analysis Period: %s\n", fc.AnalysisPeriod)
	printer.Fprintf(&b, "Date Range: %s to %s\n", fc.DateRange.Start, fc.DateRange.End)

	b.WriteString("\nOverall Budget Summary:\n")
	printer.Fprintf(&b, "- Total Budget: %s\n", money(fc.TotalBudget))
	printer.Fprintf(&b, "- Total Spent: %s\n", money(fc.TotalSpent))
	printer.Fprintf(&b, "- Remaining: %s\n", money(analytics.Sub(fc.TotalBudget, fc.TotalSpent)))
	printer.Fprintf(&b, "- Percentage Used: %s\n", pct(analytics.PercentageUsed(fc.TotalSpent, fc.TotalBudget)))

	if len(fc.CategoriesSummary) > 0 {
		b.WriteString("\nCategory Breakdown:\n")
		for _, c := range fc.CategoriesSummary {
			printer.Fprintf(&b, "- %s: Budget %s, Spent %s (%s), Remaining %s, %d transactions, Avg %s per transaction\n",
				c.Category, money(c.Budget), money(c.Spent), pct(c.PercentageUsed),
				money(c.Remaining), c.TransactionCount, money(c.AverageTransaction))
		}
	}

	if p := fc.UserProfile; p != nil {
		writeProfile(&b, p)
	}

	if inc := fc.Income; inc != nil {
		b.WriteString("\nIncome:\n")
		printer.Fprintf(&b, "- Monthly Salary: %s\n", money(inc.MonthlySalary))
		printer.Fprintf(&b, "- Income For Period: %s\n", money(inc.PeriodIncome))
		printer.Fprintf(&b, "- Spending To Income: %s\n", pct(inc.SpendingToIncomeRatio))
		printer.Fprintf(&b, "- Income Remaining: %s\n", money(inc.RemainingIncome))
	}

	if len(fc.DailyBreakdown) > 0 {
		b.WriteString("\nDaily Spending Pattern:\n")
		for _, d := range fc.DailyBreakdown {
			printer.Fprintf(&b, "- %s: %s (%d transactions)\n", d.Date, money(d.Amount), d.Transactions)
		}
	}

	if prev := fc.PreviousPeriod; prev != nil {
		change := analytics.Sub(fc.TotalSpent, prev.TotalSpent)
		changePct := 0.0
		if prev.TotalSpent > 0 {
			changePct = change / prev.TotalSpent * 100
		}
		b.WriteString("\nPrevious Period Comparison:\n")
		printer.Fprintf(&b, "- Period: %s to %s\n", prev.DateRange.Start, prev.DateRange.End)
		printer.Fprintf(&b, "- Total Spent: %s\n", money(prev.TotalSpent))
		printer.Fprintf(&b, "- Change: %s (%s)\n", money(change), pct(changePct))
	}

	if fc.TargetSavings != nil {
		printer.Fprintf(&b, "\nSavings Goal: %s\n", money(*fc.TargetSavings))
	}

	return b.String()
}

func writeProfile(b *strings.Builder, p *analytics.Profile) {
	var lines []string
	if p.Age != nil {
		lines = append(lines, printer.Sprintf("- Age: %d", *p.Age))
	}
	if p.LifeStage != "" {
		lines = append(lines, "- Life Stage: "+humanize(p.LifeStage))
	}
	if p.Gender != nil {
		lines = append(lines, "- Gender: "+*p.Gender)
	}
	if p.RelationshipStatus != "" {
		lines = append(lines, "- Relationship Status: "+humanize(p.RelationshipStatus))
	}
	if p.IsFamilyProvider != nil && *p.IsFamilyProvider {
		members := 0
		if p.FamilyMembersCount != nil {
			members = *p.FamilyMembersCount
		}
		lines = append(lines, printer.Sprintf("- Family Provider: yes, supporting %d family members", members))
	}
	if p.FinancialResponsibilityLevel != "" {
		lines = append(lines, "- Financial Responsibility: "+humanize(p.FinancialResponsibilityLevel))
	}
	if len(lines) == 0 {
		return
	}

	b.WriteString("\nUser Profile:\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
