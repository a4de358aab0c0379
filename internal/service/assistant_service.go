package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

const maxQuestionLength = 1000

var errAssistantDisabled = errors.New("AI assistant is not configured")

func (s *BudgetService) requireAdvisor(ctx context.Context) (*auth.UserClaims, error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if s.advisor == nil {
		return nil, connect.NewError(connect.CodeFailedPrecondition, errAssistantDisabled)
	}
	return claims, nil
}

func parsePeriod(name string) (period.Kind, error) {
	kind, err := period.ParseKind(name)
	if err != nil {
		return "", invalidArgument("period: Period must be one of: daily, weekly, monthly, quarterly, yearly")
	}
	return kind, nil
}

// Ask answers a free-form question about the caller's finances.
func (s *BudgetService) Ask(ctx context.Context, req *connect.Request[AskRequest]) (*connect.Response[assistant.Answer], error) {
	claims, err := s.requireAdvisor(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	var errs fieldErrors
	switch n := utf8.RuneCountInString(msg.Message); {
	case n == 0:
		errs.add("message", "Please enter a message.")
	case n > maxQuestionLength:
		errs.add("message", "The message may not be greater than 1000 characters.")
	}
	var opts analytics.ContextOptions
	if msg.Context != nil {
		opts = *msg.Context
		if opts.Period != "" && !opts.Period.Valid() {
			errs.add("context.period", "Period must be one of: daily, weekly, monthly, quarterly, yearly")
		}
	}
	for _, m := range msg.History {
		if m.Role != "user" && m.Role != "assistant" {
			errs.add("history", "History roles must be user or assistant.")
			break
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	answer, err := s.advisor.Ask(ctx, claims.UID, msg.Message, opts, msg.History, s.asOf())
	if err != nil {
		return nil, mapAssistantError(err)
	}
	return connect.NewResponse(answer), nil
}

// GetInsights produces a narrative review of a period.
func (s *BudgetService) GetInsights(ctx context.Context, req *connect.Request[GetInsightsRequest]) (*connect.Response[assistant.InsightsReport], error) {
	claims, err := s.requireAdvisor(ctx)
	if err != nil {
		return nil, err
	}
	kind, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, err
	}
	if req.Msg.Date != "" {
		if _, err := period.ParseDate(req.Msg.Date); err != nil {
			return nil, invalidArgument("date: Date must be in YYYY-MM-DD format")
		}
	}

	report, err := s.advisor.Insights(ctx, claims.UID, kind, req.Msg.Date, s.asOf())
	if err != nil {
		return nil, mapAssistantError(err)
	}
	return connect.NewResponse(report), nil
}

// GetRecommendations suggests budget amounts.
func (s *BudgetService) GetRecommendations(ctx context.Context, req *connect.Request[GetRecommendationsRequest]) (*connect.Response[RecommendationsResponse], error) {
	claims, err := s.requireAdvisor(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.CategoryID != "" {
		if _, err := s.store.GetCategory(ctx, req.Msg.CategoryID); err != nil {
			return nil, mapStoreError("get category", err)
		}
	}

	text, err := s.advisor.Recommendations(ctx, claims.UID, req.Msg.CategoryID, s.asOf())
	if err != nil {
		return nil, mapAssistantError(err)
	}
	return connect.NewResponse(&RecommendationsResponse{Recommendations: text}), nil
}

// AnalyzeAnomalies looks for unusual spending in the current period.
func (s *BudgetService) AnalyzeAnomalies(ctx context.Context, req *connect.Request[AnalyzeAnomaliesRequest]) (*connect.Response[AnomaliesResponse], error) {
	claims, err := s.requireAdvisor(ctx)
	if err != nil {
		return nil, err
	}
	kind, err := parsePeriod(req.Msg.Period)
	if err != nil {
		return nil, err
	}

	text, err := s.advisor.Anomalies(ctx, claims.UID, kind, s.asOf())
	if err != nil {
		return nil, mapAssistantError(err)
	}
	return connect.NewResponse(&AnomaliesResponse{Anomalies: text}), nil
}

// GetSavingsSuggestions proposes where to cut spending.
func (s *BudgetService) GetSavingsSuggestions(ctx context.Context, req *connect.Request[GetSavingsSuggestionsRequest]) (*connect.Response[SavingsResponse], error) {
	claims, err := s.requireAdvisor(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Msg.TargetAmount
	if target != nil && *target < 0 {
		return nil, invalidArgument("target_amount: The target amount must be at least 0.")
	}

	text, err := s.advisor.Savings(ctx, claims.UID, target, s.asOf())
	if err != nil {
		return nil, mapAssistantError(err)
	}
	return connect.NewResponse(&SavingsResponse{Suggestions: text, TargetAmount: target}), nil
}

// CheckAssistant probes the text-generation service.
func (s *BudgetService) CheckAssistant(ctx context.Context, req *connect.Request[CheckAssistantRequest]) (*connect.Response[assistant.ConnectionStatus], error) {
	if _, err := s.requireAdvisor(ctx); err != nil {
		return nil, err
	}
	status := s.advisor.Check(ctx)
	return connect.NewResponse(&status), nil
}
