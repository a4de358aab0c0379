package assistant

import (
	"context"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

const (
	insightsPrompt = `Based on the user's spending data, provide detailed financial insights including:
1. Spending patterns analysis
2. Budget optimization recommendations
3. Areas where they can save money
4. Positive spending habits to maintain
5. Warning about any concerning trends
Please be specific and actionable.`

	categoryRecommendationPrompt = "Analyze the spending in this specific category and recommend an optimal budget amount. Consider historical spending patterns and provide justification."
	allRecommendationsPrompt     = "Review all spending categories and recommend optimal budget allocations. Provide specific amounts and reasoning for each category."

	anomaliesPrompt = `Analyze the spending data for unusual patterns or anomalies. Identify:
1. Any sudden spikes in spending
2. Categories with irregular patterns
3. Potential budget risks
4. Unusual transactions that need attention
Be specific about dates and amounts.`

	targetSavingsPrompt  = "The user wants to save %s. Analyze their spending and provide specific, actionable suggestions on how to achieve this savings goal. Include which categories to reduce and by how much."
	generalSavingsPrompt = "Analyze the user's spending and identify opportunities to save money. Provide specific, actionable suggestions for each category."
)

// Chatter generates a reply for a message given a financial context.
type Chatter interface {
	Chat(ctx context.Context, message string, fc *analytics.FinancialContext, opts ChatOptions) (*Response, error)
	TestConnection(ctx context.Context) ConnectionStatus
}

// ContextGatherer assembles a financial context for a user.
type ContextGatherer interface {
	Gather(ctx context.Context, userID string, opts analytics.ContextOptions, asOf time.Time) (*analytics.FinancialContext, error)
}

// Advisor answers budgeting questions by pairing the user's financial
// context with a fixed prompt per task.
type Advisor struct {
	chat    Chatter
	context ContextGatherer
}

// NewAdvisor creates an advisor.
func NewAdvisor(chat Chatter, gatherer ContextGatherer) *Advisor {
	return &Advisor{chat: chat, context: gatherer}
}

// Answer is the reply to a free-form question.
type Answer struct {
	Message  string `json:"message"`
	Response string `json:"response"`
	Usage    *Usage `json:"usage"`
}

// Ask answers a user's question. history holds earlier turns of the same
// conversation.
func (a *Advisor) Ask(ctx context.Context, userID, msg string, opts analytics.ContextOptions, history []Message, asOf time.Time) (*Answer, error) {
	resp, err := a.run(ctx, userID, msg, opts, history, asOf)
	if err != nil {
		return nil, err
	}
	return &Answer{Message: msg, Response: resp.Content, Usage: resp.Usage}, nil
}

// InsightsReport is a generated narrative about a period.
type InsightsReport struct {
	Period      period.Kind `json:"period"`
	Insights    string      `json:"insights"`
	GeneratedAt string      `json:"generated_at"`
}

// Insights produces a detailed review of the period containing date, or of
// the period containing asOf when date is empty.
func (a *Advisor) Insights(ctx context.Context, userID string, kind period.Kind, date string, asOf time.Time) (*InsightsReport, error) {
	kind = kind.OrDefault()
	if date == "" {
		date = period.FormatDate(asOf)
	}
	opts := analytics.ContextOptions{Period: kind, Date: date, Detailed: true}

	resp, err := a.run(ctx, userID, insightsPrompt, opts, nil, asOf)
	if err != nil {
		return nil, err
	}
	return &InsightsReport{
		Period:      kind,
		Insights:    resp.Content,
		GeneratedAt: asOf.Format(time.RFC3339),
	}, nil
}

// Recommendations suggests budget amounts for one category, or for all of
// them when categoryID is empty.
func (a *Advisor) Recommendations(ctx context.Context, userID, categoryID string, asOf time.Time) (string, error) {
	prompt := allRecommendationsPrompt
	if categoryID != "" {
		prompt = categoryRecommendationPrompt
	}
	opts := analytics.ContextOptions{CategoryID: categoryID, IncludeHistory: true}

	resp, err := a.run(ctx, userID, prompt, opts, nil, asOf)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Anomalies looks for unusual spending within the period containing asOf.
func (a *Advisor) Anomalies(ctx context.Context, userID string, kind period.Kind, asOf time.Time) (string, error) {
	opts := analytics.ContextOptions{Period: kind.OrDefault(), IncludeDailyBreakdown: true}

	resp, err := a.run(ctx, userID, anomaliesPrompt, opts, nil, asOf)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Savings suggests where to cut back, aiming at target when one is given.
func (a *Advisor) Savings(ctx context.Context, userID string, target *float64, asOf time.Time) (string, error) {
	prompt := generalSavingsPrompt
	if target != nil && *target != 0 {
		prompt = printer.Sprintf(targetSavingsPrompt, analytics.FormatNumber(*target))
	}
	opts := analytics.ContextOptions{TargetSavings: target}

	resp, err := a.run(ctx, userID, prompt, opts, nil, asOf)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Check probes the upstream service.
func (a *Advisor) Check(ctx context.Context) ConnectionStatus {
	return a.chat.TestConnection(ctx)
}

func (a *Advisor) run(ctx context.Context, userID, prompt string, opts analytics.ContextOptions, history []Message, asOf time.Time) (*Response, error) {
	fc, err := a.context.Gather(ctx, userID, opts, asOf)
	if err != nil {
		return nil, err
	}
	return a.chat.Chat(ctx, prompt, fc, ChatOptions{History: history})
}
