package store

import (
	"cmp"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=store

var (
	// ErrNotFound is wrapped by every lookup of a missing record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a user already has a budget for a category.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for all database operations used by the service
type Store interface {
	// Category operations
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*model.Category, error)

	// User operations
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpsertUser(ctx context.Context, user *model.User) error

	// Budget operations
	CreateBudget(ctx context.Context, budget *model.Budget) error
	GetBudget(ctx context.Context, budgetID string) (*model.Budget, error)
	GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*model.Budget, error)
	UpdateBudget(ctx context.Context, budget *model.Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error
	ListBudgets(ctx context.Context, userID string) ([]*model.Budget, error)

	// Entry operations
	CreateEntry(ctx context.Context, entry *model.Entry) error
	GetEntry(ctx context.Context, entryID string) (*model.Entry, error)
	UpdateEntry(ctx context.Context, entry *model.Entry) error
	DeleteEntry(ctx context.Context, entryID string) error
	ListEntries(ctx context.Context, filter EntryFilter) ([]*model.Entry, error)
	ListEntriesPage(ctx context.Context, filter EntryFilter, page EntryPageRequest) ([]*model.Entry, int, error)
}

// EntryFilter selects entries. Zero fields do not constrain; Start and End
// bound the entry date inclusively.
type EntryFilter struct {
	UserID     string
	CategoryID string
	BudgetID   string
	StatsType  period.Kind
	Start      *time.Time
	End        *time.Time
}

// ForRange returns a filter on userID's entries dated within r.
func ForRange(userID string, r period.Range) EntryFilter {
	start, end := r.Start, r.End
	return EntryFilter{UserID: userID, Start: &start, End: &end}
}

// Matches reports whether e satisfies the filter.
func (f EntryFilter) Matches(e *model.Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.BudgetID != "" && e.BudgetID != f.BudgetID {
		return false
	}
	if f.StatsType != "" && e.StatsType != f.StatsType {
		return false
	}
	if f.Start != nil && e.Date.Before(period.Day(*f.Start)) {
		return false
	}
	if f.End != nil && e.Date.After(*f.End) {
		return false
	}
	return true
}

// Sort keys accepted by ListEntriesPage.
const (
	SortByDate      = "date"
	SortByAmount    = "amount"
	SortByTime      = "time"
	SortByStatsType = "stats_type"
	SortByCreatedAt = "created_at"

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultPerPage = 15
	MaxPerPage     = 100
)

// SortKeys lists the valid sort keys.
var SortKeys = []string{SortByDate, SortByAmount, SortByTime, SortByStatsType, SortByCreatedAt}

// EntryPageRequest describes one page of a sorted entry listing.
type EntryPageRequest struct {
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
}

// Normalize fills defaults and clamps out of range values.
func (p EntryPageRequest) Normalize() EntryPageRequest {
	valid := false
	for _, k := range SortKeys {
		if p.SortBy == k {
			valid = true
			break
		}
	}
	if !valid {
		p.SortBy = SortByDate
	}
	if p.SortOrder != SortAsc {
		p.SortOrder = SortDesc
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset is the index of the first entry on the page.
func (p EntryPageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// compareEntries orders entries by date, time of day and id.
func compareEntries(a, b *model.Entry) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// SortEntries orders entries chronologically.
func SortEntries(entries []*model.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return compareEntries(entries[i], entries[j]) < 0
	})
}

// sortEntriesBy orders entries by key, falling back to chronological order
// for ties.
func sortEntriesBy(entries []*model.Entry, key, order string) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		c := 0
		switch key {
		case SortByAmount:
			c = cmp.Compare(a.Amount, b.Amount)
		case SortByTime:
			c = cmp.Compare(a.Time, b.Time)
		case SortByStatsType:
			c = cmp.Compare(a.StatsType, b.StatsType)
		case SortByCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = compareEntries(a, b)
		}
		if order == SortDesc {
			return c > 0
		}
		return c < 0
	})
}

// paginateEntries sorts and slices entries for page, returning the page and
// the number of entries before slicing.
func paginateEntries(entries []*model.Entry, page EntryPageRequest) ([]*model.Entry, int) {
	page = page.Normalize()
	sortEntriesBy(entries, page.SortBy, page.SortOrder)

	total := len(entries)
	start := page.Offset()
	if start >= total {
		return []*model.Entry{}, total
	}
	end := start + page.PerPage
	if end > total {
		end = total
	}
	return entries[start:end], total
}
