package service

import (
	"context"
	"errors"
	"log"
	"unicode/utf8"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"github.com/google/uuid"
)

const maxBudgetNameLength = 255

// ListCategories returns every category ordered by name.
func (s *BudgetService) ListCategories(ctx context.Context, req *connect.Request[ListCategoriesRequest]) (*connect.Response[ListCategoriesResponse], error) {
	if _, err := auth.RequireAuth(ctx); err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, mapStoreError("list categories", err)
	}
	return connect.NewResponse(&ListCategoriesResponse{Categories: categories}), nil
}

// ListBudgets returns the caller's budgets with their categories.
func (s *BudgetService) ListBudgets(ctx context.Context, req *connect.Request[ListBudgetsRequest]) (*connect.Response[ListBudgetsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
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

	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, BudgetView{Budget: b, Category: categories[b.CategoryID]})
	}
	return connect.NewResponse(&ListBudgetsResponse{Budgets: views}), nil
}

// CreateBudget sets the caller's budget for a category. A user has at most
// one budget per category.
func (s *BudgetService) CreateBudget(ctx context.Context, req *connect.Request[CreateBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var errs fieldErrors
	if req.Msg.CategoryID == "" {
		errs.add("category_id", "Please select a category.")
	}
	validateBudgetAmount(&errs, req.Msg.Amount)
	if utf8.RuneCountInString(req.Msg.Name) > maxBudgetNameLength {
		errs.add("name", "The name may not be greater than 255 characters.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	category, err := s.store.GetCategory(ctx, req.Msg.CategoryID)
	if err != nil {
		return nil, mapStoreError("get category", err)
	}
	if _, err := s.ensureUser(ctx, claims); err != nil {
		return nil, err
	}

	name := req.Msg.Name
	if name == "" {
		name = category.Name
	}
	now := s.now().UTC()
	budget := &model.Budget{
		ID:         uuid.New().String(),
		UserID:     claims.UID,
		CategoryID: category.ID,
		Name:       name,
		Amount:     *req.Msg.Amount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, connect.NewError(connect.CodeAlreadyExists, errors.New("A budget already exists for this category."))
		}
		return nil, mapStoreError("create budget", err)
	}

	return connect.NewResponse(&BudgetResponse{
		Message: "Budget created successfully.",
		Budget:  BudgetView{Budget: budget, Category: category},
	}), nil
}

// UpdateBudget changes the amount, and optionally the name, of the caller's
// budget for a category.
func (s *BudgetService) UpdateBudget(ctx context.Context, req *connect.Request[UpdateBudgetRequest]) (*connect.Response[BudgetResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var errs fieldErrors
	if req.Msg.CategoryID == "" {
		errs.add("category_id", "Please select a category.")
	}
	validateBudgetAmount(&errs, req.Msg.Amount)
	if req.Msg.Name != nil && utf8.RuneCountInString(*req.Msg.Name) > maxBudgetNameLength {
		errs.add("name", "The name may not be greater than 255 characters.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	budget, err := s.store.GetBudgetByCategory(ctx, claims.UID, req.Msg.CategoryID)
	if err != nil {
		return nil, mapStoreError("get budget", err)
	}

	budget.Amount = *req.Msg.Amount
	if req.Msg.Name != nil && *req.Msg.Name != "" {
		budget.Name = *req.Msg.Name
	}
	budget.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		return nil, mapStoreError("update budget", err)
	}

	category, err := s.store.GetCategory(ctx, budget.CategoryID)
	if err != nil {
		log.Printf("[BudgetService] UpdateBudget: budget %s saved but category %s could not be loaded: %v", budget.ID, budget.CategoryID, err)
	}
	return connect.NewResponse(&BudgetResponse{
		Message: "Budget updated successfully.",
		Budget:  BudgetView{Budget: budget, Category: category},
	}), nil
}

// DeleteBudget removes the caller's budget for a category together with
// every entry recorded against it.
func (s *BudgetService) DeleteBudget(ctx context.Context, req *connect.Request[DeleteBudgetRequest]) (*connect.Response[MessageResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.CategoryID == "" {
		return nil, invalidArgument("category_id: Please select a category.")
	}

	budget, err := s.store.GetBudgetByCategory(ctx, claims.UID, req.Msg.CategoryID)
	if err != nil {
		return nil, mapStoreError("get budget", err)
	}
	if err := s.store.DeleteBudget(ctx, budget.ID); err != nil {
		return nil, mapStoreError("delete budget", err)
	}

	return connect.NewResponse(&MessageResponse{Message: "Budget deleted successfully."}), nil
}

func validateBudgetAmount(errs *fieldErrors, amount *float64) {
	switch {
	case amount == nil:
		errs.add("amount", "Please enter an amount.")
	case *amount < 0:
		errs.add("amount", "The amount must be at least 0.")
	}
}
