package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/google/uuid"
)

// MemoryStore implements Store interface with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	// Storage maps
	categories map[string]*model.Category
	users      map[string]*model.User
	budgets    map[string]*model.Budget
	entries    map[string]*model.Entry
}

// NewMemoryStore creates a new in-memory store seeded with the default
// categories.
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{
		categories: make(map[string]*model.Category),
		users:      make(map[string]*model.User),
		budgets:    make(map[string]*model.Budget),
		entries:    make(map[string]*model.Entry),
	}
	for _, c := range model.DefaultCategories() {
		m.categories[c.ID] = c
	}
	return m
}

// Category operations

func (m *MemoryStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, categoryID string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[categoryID]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// User operations

func (m *MemoryStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) UpsertUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *user
	m.users[user.ID] = &cp
	return nil
}

// Budget operations

func (m *MemoryStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.budgets {
		if b.UserID == budget.UserID && b.CategoryID == budget.CategoryID {
			return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
		}
	}
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}

	cp := *budget
	m.budgets[budget.ID] = &cp
	return nil
}

func (m *MemoryStore) GetBudget(ctx context.Context, budgetID string) (*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.budgets[budgetID]
	if !ok {
		return nil, fmt.Errorf("budget %s: %w", budgetID, ErrNotFound)
	}
	cp := *b
	return &cp, nil
}

func (m *MemoryStore) GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.budgets {
		if b.UserID == userID && b.CategoryID == categoryID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("budget for category %s: %w", categoryID, ErrNotFound)
}

func (m *MemoryStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets[budget.ID]; !ok {
		return fmt.Errorf("budget %s: %w", budget.ID, ErrNotFound)
	}
	for id, b := range m.budgets {
		if id != budget.ID && b.UserID == budget.UserID && b.CategoryID == budget.CategoryID {
			return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
		}
	}

	cp := *budget
	m.budgets[budget.ID] = &cp
	return nil
}

// DeleteBudget removes the budget and every entry linked to it.
func (m *MemoryStore) DeleteBudget(ctx context.Context, budgetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets[budgetID]; !ok {
		return fmt.Errorf("budget %s: %w", budgetID, ErrNotFound)
	}
	for id, e := range m.entries {
		if e.BudgetID == budgetID {
			delete(m.entries, id)
		}
	}
	delete(m.budgets, budgetID)
	return nil
}

func (m *MemoryStore) ListBudgets(ctx context.Context, userID string) ([]*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Budget
	for _, b := range m.budgets {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sortBudgets(out)
	return out, nil
}

// Entry operations

func (m *MemoryStore) CreateEntry(ctx context.Context, entry *model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *MemoryStore) GetEntry(ctx context.Context, entryID string) (*model.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (m *MemoryStore) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entry.ID]; !ok {
		return fmt.Errorf("entry %s: %w", entry.ID, ErrNotFound)
	}

	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteEntry(ctx context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[entryID]; !ok {
		return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	delete(m.entries, entryID)
	return nil
}

func (m *MemoryStore) ListEntries(ctx context.Context, filter EntryFilter) ([]*model.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.matchEntries(filter)
	SortEntries(out)
	return out, nil
}

func (m *MemoryStore) ListEntriesPage(ctx context.Context, filter EntryFilter, page EntryPageRequest) ([]*model.Entry, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out, total := paginateEntries(m.matchEntries(filter), page)
	return out, total, nil
}

// matchEntries copies every entry matching filter. Callers hold the lock.
func (m *MemoryStore) matchEntries(filter EntryFilter) []*model.Entry {
	out := []*model.Entry{}
	for _, e := range m.entries {
		if filter.Matches(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out
}

// sortBudgets orders budgets by creation time, then id.
func sortBudgets(budgets []*model.Budget) {
	sort.SliceStable(budgets, func(i, j int) bool {
		if c := budgets[i].CreatedAt.Compare(budgets[j].CreatedAt); c != 0 {
			return c < 0
		}
		return budgets[i].ID < budgets[j].ID
	})
}
