package service

import (
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
	"github.com/castlemilk/budgetwise/backend/internal/model"
)

// MessageResponse acknowledges an operation with no payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// Categories

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*model.Category `json:"categories"`
}

// Budgets

// BudgetView is a budget with its category embedded.
type BudgetView struct {
	*model.Budget
	Category *model.Category `json:"category,omitempty"`
}

type ListBudgetsRequest struct{}

type ListBudgetsResponse struct {
	Budgets []BudgetView `json:"budgets"`
}

type CreateBudgetRequest struct {
	CategoryID string   `json:"category_id"`
	Name       string   `json:"name"`
	Amount     *float64 `json:"amount"`
}

type UpdateBudgetRequest struct {
	CategoryID string   `json:"category_id"`
	Amount     *float64 `json:"amount"`
	Name       *string  `json:"name,omitempty"`
}

type DeleteBudgetRequest struct {
	CategoryID string `json:"category_id"`
}

type BudgetResponse struct {
	Message string     `json:"message,omitempty"`
	Budget  BudgetView `json:"budget"`
}

// Entries

// EntryView is the wire form of a spending entry.
type EntryView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	CategoryID  string          `json:"category_id"`
	BudgetID    string          `json:"budget_id"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	StatsType   string          `json:"stats_type"`
	Description string          `json:"description,omitempty"`
	Category    *model.Category `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func newEntryView(e *model.Entry, category *model.Category) EntryView {
	return EntryView{
		ID:          e.ID,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		BudgetID:    e.BudgetID,
		Amount:      e.Amount,
		Date:        e.DateString(),
		Time:        e.Time,
		StatsType:   string(e.StatsType),
		Description: e.Description,
		Category:    category,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type CreateEntryRequest struct {
	CategoryID  string  `json:"category_id"`
	BudgetID    string  `json:"budget_id,omitempty"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Time        string  `json:"time,omitempty"`
	StatsType   string  `json:"stats_type"`
	Description string  `json:"description,omitempty"`
}

type CreateEntryResponse struct {
	Message      string                   `json:"message"`
	Entry        EntryView                `json:"entry"`
	BudgetStatus analytics.BudgetSnapshot `json:"budget_status"`
	Warning      *analytics.Warning       `json:"warning"`
}

// UpdateEntryRequest changes only the fields that are set.
type UpdateEntryRequest struct {
	ID          string   `json:"id"`
	CategoryID  *string  `json:"category_id,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Time        *string  `json:"time,omitempty"`
	StatsType   *string  `json:"stats_type,omitempty"`
	Description *string  `json:"description,omitempty"`
}

type EntryResponse struct {
	Message string    `json:"message"`
	Entry   EntryView `json:"entry"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type ListEntriesRequest struct {
	CategoryID string `json:"category_id,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	StatsType  string `json:"stats_type,omitempty"`
	SortBy     string `json:"sort_by,omitempty"`
	SortOrder  string `json:"sort_order,omitempty"`
	Page       int    `json:"page,omitempty"`
	PerPage    int    `json:"per_page,omitempty"`
}

type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

type ListEntriesResponse struct {
	Data []EntryView `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// Stats

type GetOverviewRequest struct {
	Period string `json:"period,omitempty"`
	Date   string `json:"date,omitempty"`
}

type GetCategoryStatsRequest struct {
	CategoryID string `json:"category_id"`
	Period     string `json:"period,omitempty"`
	Date       string `json:"date,omitempty"`
}

// Profile

type GetProfileRequest struct{}

type UpdateProfileRequest struct {
	Salary             *float64 `json:"salary,omitempty"`
	Age                *int     `json:"age,omitempty"`
	Gender             *string  `json:"gender,omitempty"`
	IsSingle           *bool    `json:"is_single,omitempty"`
	IsFamilyProvider   *bool    `json:"is_family_provider,omitempty"`
	FamilyMembersCount *int     `json:"family_members_count,omitempty"`
}

type ProfileResponse struct {
	Message string             `json:"message,omitempty"`
	User    *model.User        `json:"user"`
	Profile *analytics.Profile `json:"profile"`
}

// Assistant

type AskRequest struct {
	Message string                    `json:"message"`
	Context *analytics.ContextOptions `json:"context,omitempty"`
	History []assistant.Message       `json:"history,omitempty"`
}

type GetInsightsRequest struct {
	Period string `json:"period,omitempty"`
	Date   string `json:"date,omitempty"`
}

type GetRecommendationsRequest struct {
	CategoryID string `json:"category_id,omitempty"`
}

type RecommendationsResponse struct {
	Recommendations string `json:"recommendations"`
}

type AnalyzeAnomaliesRequest struct {
	Period string `json:"period,omitempty"`
}

type AnomaliesResponse struct {
	Anomalies string `json:"anomalies"`
}

type GetSavingsSuggestionsRequest struct {
	TargetAmount *float64 `json:"target_amount,omitempty"`
}

type SavingsResponse struct {
	Suggestions  string   `json:"suggestions"`
	TargetAmount *float64 `json:"target_amount"`
}

type CheckAssistantRequest struct{}
