package service

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/castlemilk/budgetwise/backend/internal/store"
)

// window resolves a period name and anchor date from a request, defaulting
// to the month containing the current day.
func (s *BudgetService) window(periodName, date string) (period.Kind, period.Range, error) {
	var errs fieldErrors
	kind, err := period.ParseKind(periodName)
	if err != nil {
		errs.add("period", "Period must be one of: daily, weekly, monthly, quarterly, yearly")
	}
	anchor := period.Day(s.now().UTC())
	if date != "" {
		if anchor, err = period.ParseDate(date); err != nil {
			errs.add("date", "Date must be in YYYY-MM-DD format")
		}
	}
	if err := errs.err(); err != nil {
		return "", period.Range{}, err
	}
	return kind, period.Resolve(kind, anchor), nil
}

// GetOverview reports every budget of the caller against spending within
// the requested period.
func (s *BudgetService) GetOverview(ctx context.Context, req *connect.Request[GetOverviewRequest]) (*connect.Response[analytics.Overview], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	kind, rng, err := s.window(req.Msg.Period, req.Msg.Date)
	if err != nil {
		return nil, err
	}

	budgets, err := s.store.ListBudgets(ctx, claims.UID)
	if err != nil {
		return nil, mapStoreError("list budgets", err)
	}
	categories, err := s.categoryMap(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.ListEntries(ctx, store.ForRange(claims.UID, rng))
	if err != nil {
		return nil, mapStoreError("list entries", err)
	}

	return connect.NewResponse(analytics.BuildOverview(kind, rng, budgets, categories, entries)), nil
}

// GetCategoryStats reports one category's budget, daily series and trend
// within the requested period.
func (s *BudgetService) GetCategoryStats(ctx context.Context, req *connect.Request[GetCategoryStatsRequest]) (*connect.Response[analytics.CategoryStats], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.CategoryID == "" {
		return nil, invalidArgument("category_id: Please select a category.")
	}
	kind, rng, err := s.window(req.Msg.Period, req.Msg.Date)
	if err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, req.Msg.CategoryID)
	if err != nil {
		return nil, mapStoreError("get category", err)
	}
	budget, err := s.store.GetBudgetByCategory(ctx, claims.UID, category.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New(msgNoBudgetForCategory))
	}
	if err != nil {
		return nil, mapStoreError("get budget", err)
	}

	filter := store.ForRange(claims.UID, rng)
	filter.CategoryID = category.ID
	entries, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, mapStoreError("list entries", err)
	}

	return connect.NewResponse(analytics.BuildCategoryStats(kind, rng, category, budget, entries)), nil
}

func (s *BudgetService) asOf() time.Time {
	return s.now().UTC()
}
