package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/alerts"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"github.com/google/uuid"
)

const (
	timeLayout           = "15:04:05"
	minEntryAmount       = 0.01
	maxDescriptionLength = 500
)

// CreateEntry records spending against the caller's budget for a category
// and reports where that budget now stands within the entry's period.
func (s *BudgetService) CreateEntry(ctx context.Context, req *connect.Request[CreateEntryRequest]) (*connect.Response[CreateEntryResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	var errs fieldErrors
	if msg.CategoryID == "" && msg.BudgetID == "" {
		errs.add("category_id", "Please select a category.")
	}
	if msg.Amount < minEntryAmount {
		errs.add("amount", "The amount must be at least 0.01.")
	}
	var date time.Time
	if msg.Date == "" {
		errs.add("date", "Please enter a date.")
	} else if date, err = period.ParseDate(msg.Date); err != nil {
		errs.add("date", "Please enter a valid date.")
	}
	validateTime(&errs, msg.Time)
	kind := period.Kind(msg.StatsType)
	if msg.StatsType == "" {
		errs.add("stats_type", "Please select a statistics type.")
	} else if !kind.Valid() {
		errs.add("stats_type", "The statistics type must be one of: daily, weekly, monthly, quarterly, yearly.")
	}
	validateDescription(&errs, msg.Description)
	if err := errs.err(); err != nil {
		return nil, err
	}

	budget, category, err := s.resolveBudget(ctx, claims, msg.CategoryID, msg.BudgetID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	entryTime := msg.Time
	if entryTime == "" {
		entryTime = now.Format(timeLayout)
	}
	entry := &model.Entry{
		ID:          uuid.New().String(),
		UserID:      claims.UID,
		CategoryID:  budget.CategoryID,
		BudgetID:    budget.ID,
		Amount:      msg.Amount,
		Date:        date,
		Time:        entryTime,
		StatsType:   kind,
		Description: msg.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Read the window before inserting so no error is returned once the
	// entry is stored.
	rng := period.Resolve(kind, date)
	filter := store.ForRange(claims.UID, rng)
	filter.BudgetID = budget.ID
	entries, err := s.store.ListEntries(ctx, filter)
	if err != nil {
		return nil, mapStoreError("list entries", err)
	}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, mapStoreError("create entry", err)
	}

	entries = append(entries, entry)
	spent := analytics.Summarize(entries, rng, analytics.SpendFilter{BudgetID: budget.ID}).Total
	status := analytics.Snapshot(budget.Amount, spent)
	warning := analytics.RecordWarning(status.PercentageUsed)

	if warning != nil {
		s.notify(ctx, alerts.NewBudgetAlert(claims.UID, budget.ID, budget.CategoryID, status, *warning, now))
	}

	return connect.NewResponse(&CreateEntryResponse{
		Message:      "Spending recorded successfully",
		Entry:        newEntryView(entry, category),
		BudgetStatus: status,
		Warning:      warning,
	}), nil
}

// resolveBudget finds the budget an entry is recorded against. An explicit
// budget id must belong to the caller and match the category when both are
// given; otherwise the caller's budget for the category is used.
func (s *BudgetService) resolveBudget(ctx context.Context, claims *auth.UserClaims, categoryID, budgetID string) (*model.Budget, *model.Category, error) {
	if budgetID != "" {
		budget, err := s.store.GetBudget(ctx, budgetID)
		if err != nil {
			return nil, nil, mapStoreError("get budget", err)
		}
		if err := auth.RequireOwnership(claims, budget.UserID); err != nil {
			return nil, nil, err
		}
		if categoryID != "" && categoryID != budget.CategoryID {
			return nil, nil, invalidArgument("budget_id: The budget does not belong to the selected category.")
		}
		categoryID = budget.CategoryID
	}

	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, nil, mapStoreError("get category", err)
	}

	budget, err := s.store.GetBudgetByCategory(ctx, claims.UID, categoryID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, noBudgetError(msgNoBudget)
	}
	if err != nil {
		return nil, nil, mapStoreError("get budget", err)
	}
	return budget, category, nil
}

// UpdateEntry applies a partial update to one of the caller's entries. A
// category change relinks the entry to the caller's budget for that
// category.
func (s *BudgetService) UpdateEntry(ctx context.Context, req *connect.Request[UpdateEntryRequest]) (*connect.Response[EntryResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	var errs fieldErrors
	if msg.ID == "" {
		errs.add("id", "The entry id is required.")
	}
	if msg.Amount != nil && *msg.Amount < minEntryAmount {
		errs.add("amount", "The amount must be at least 0.01.")
	}
	var date time.Time
	if msg.Date != nil {
		if date, err = period.ParseDate(*msg.Date); err != nil {
			errs.add("date", "Please enter a valid date.")
		}
	}
	if msg.Time != nil {
		if *msg.Time == "" {
			errs.add("time", "The time must be in the format HH:MM:SS.")
		}
		validateTime(&errs, *msg.Time)
	}
	if msg.StatsType != nil && !period.Kind(*msg.StatsType).Valid() {
		errs.add("stats_type", "The statistics type must be one of: daily, weekly, monthly, quarterly, yearly.")
	}
	if msg.Description != nil {
		validateDescription(&errs, *msg.Description)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	entry, err := s.store.GetEntry(ctx, msg.ID)
	if err != nil {
		return nil, mapStoreError("get entry", err)
	}
	if err := auth.RequireOwnership(claims, entry.UserID); err != nil {
		return nil, err
	}

	if msg.CategoryID != nil && *msg.CategoryID != entry.CategoryID {
		if _, err := s.store.GetCategory(ctx, *msg.CategoryID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalidArgument("category_id: The selected category does not exist.")
			}
			return nil, mapStoreError("get category", err)
		}
		budget, err := s.store.GetBudgetByCategory(ctx, claims.UID, *msg.CategoryID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, noBudgetError(msgNoBudget)
		}
		if err != nil {
			return nil, mapStoreError("get budget", err)
		}
		entry.CategoryID = budget.CategoryID
		entry.BudgetID = budget.ID
	}
	if msg.Amount != nil {
		entry.Amount = *msg.Amount
	}
	if msg.Date != nil {
		entry.Date = date
	}
	if msg.Time != nil {
		entry.Time = *msg.Time
	}
	if msg.StatsType != nil {
		entry.StatsType = period.Kind(*msg.StatsType)
	}
	if msg.Description != nil {
		entry.Description = *msg.Description
	}
	entry.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, mapStoreError("update entry", err)
	}

	category, err := s.store.GetCategory(ctx, entry.CategoryID)
	if err != nil {
		log.Printf("[BudgetService] UpdateEntry: entry %s saved but category %s could not be loaded: %v", entry.ID, entry.CategoryID, err)
	}
	return connect.NewResponse(&EntryResponse{
		Message: "Spending record updated successfully",
		Entry:   newEntryView(entry, category),
	}), nil
}

// DeleteEntry removes one of the caller's entries.
func (s *BudgetService) DeleteEntry(ctx context.Context, req *connect.Request[DeleteEntryRequest]) (*connect.Response[MessageResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ID == "" {
		return nil, invalidArgument("id: The entry id is required.")
	}

	entry, err := s.store.GetEntry(ctx, req.Msg.ID)
	if err != nil {
		return nil, mapStoreError("get entry", err)
	}
	if err := auth.RequireOwnership(claims, entry.UserID); err != nil {
		return nil, err
	}
	if err := s.store.DeleteEntry(ctx, entry.ID); err != nil {
		return nil, mapStoreError("delete entry", err)
	}

	return connect.NewResponse(&MessageResponse{Message: "Spending record deleted successfully"}), nil
}

// ListEntries pages through the caller's entries.
func (s *BudgetService) ListEntries(ctx context.Context, req *connect.Request[ListEntriesRequest]) (*connect.Response[ListEntriesResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	filter := store.EntryFilter{UserID: claims.UID, CategoryID: msg.CategoryID}
	var errs fieldErrors
	if msg.StatsType != "" {
		kind := period.Kind(msg.StatsType)
		if !kind.Valid() {
			errs.add("stats_type", "The statistics type must be one of: daily, weekly, monthly, quarterly, yearly.")
		}
		filter.StatsType = kind
	}
	// The date filter applies only when both bounds are given.
	if msg.StartDate != "" && msg.EndDate != "" {
		start, err1 := period.ParseDate(msg.StartDate)
		end, err2 := period.ParseDate(msg.EndDate)
		if err1 != nil || err2 != nil {
			errs.add("start_date", "Dates must be in YYYY-MM-DD format.")
		} else {
			end = end.Add(24*time.Hour - time.Nanosecond)
			filter.Start, filter.End = &start, &end
		}
	}
	if msg.SortBy != "" && !slices.Contains(store.SortKeys, msg.SortBy) {
		errs.add("sort_by", "The sort field must be one of: "+strings.Join(store.SortKeys, ", ")+".")
	}
	if msg.SortOrder != "" && msg.SortOrder != store.SortAsc && msg.SortOrder != store.SortDesc {
		errs.add("sort_order", "The sort order must be asc or desc.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	page := store.EntryPageRequest{
		SortBy:    msg.SortBy,
		SortOrder: msg.SortOrder,
		Page:      msg.Page,
		PerPage:   msg.PerPage,
	}.Normalize()

	entries, total, err := s.store.ListEntriesPage(ctx, filter, page)
	if err != nil {
		return nil, mapStoreError("list entries", err)
	}
	categories, err := s.categoryMap(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		data = append(data, newEntryView(e, categories[e.CategoryID]))
	}
	lastPage := (total + page.PerPage - 1) / page.PerPage
	if lastPage < 1 {
		lastPage = 1
	}

	return connect.NewResponse(&ListEntriesResponse{
		Data: data,
		Meta: PageMeta{
			CurrentPage: page.Page,
			PerPage:     page.PerPage,
			Total:       total,
			LastPage:    lastPage,
		},
	}), nil
}

func validateTime(errs *fieldErrors, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(timeLayout, value); err != nil || len(value) != len(timeLayout) {
		errs.add("time", "The time must be in the format HH:MM:SS.")
	}
}

func validateDescription(errs *fieldErrors, value string) {
	if utf8.RuneCountInString(value) > maxDescriptionLength {
		errs.add("description", "The description may not be greater than 500 characters.")
	}
}
