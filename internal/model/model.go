package model

import (
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/period"
)

// User is an authenticated account plus optional profile attributes used to
// personalise assistant answers. Profile fields are nil when unknown.
type User struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email,omitempty"`
	DisplayName        string    `json:"display_name,omitempty"`
	Salary             *float64  `json:"salary,omitempty"`
	Age                *int      `json:"age,omitempty"`
	Gender             *string   `json:"gender,omitempty"`
	IsSingle           *bool     `json:"is_single,omitempty"`
	IsFamilyProvider   *bool     `json:"is_family_provider,omitempty"`
	FamilyMembersCount *int      `json:"family_members_count,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Category is a shared spending bucket.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Budget is a user's spending ceiling for one category. The amount is not
// tied to a period; every query reinterprets it against its own window.
type Budget struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Entry is a single recorded spend event.
type Entry struct {
	ID          string
	UserID      string
	CategoryID  string
	BudgetID    string
	Amount      float64
	Date        time.Time // UTC midnight of the calendar day
	Time        string    // HH:MM:SS
	StatsType   period.Kind
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DateString returns the entry's calendar day as YYYY-MM-DD.
func (e *Entry) DateString() string {
	return period.FormatDate(e.Date)
}

// CategoryMap indexes categories by ID.
func CategoryMap(categories []*Category) map[string]*Category {
	m := make(map[string]*Category, len(categories))
	for _, c := range categories {
		m[c.ID] = c
	}
	return m
}
