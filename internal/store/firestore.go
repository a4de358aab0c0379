package store

import (
	"context"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	categoriesCollection = "categories"
	usersCollection      = "users"
	budgetsCollection    = "budgets"
	entriesCollection    = "entries"
)

// FirestoreStore implements the Store interface using Firestore
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store and seeds the
// category taxonomy when the collection is empty.
func NewFirestoreStore(ctx context.Context, client *firestore.Client) (*FirestoreStore, error) {
	s := &FirestoreStore{client: client}
	if err := s.ensureCategories(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FirestoreStore) ensureCategories(ctx context.Context) error {
	existing, err := s.client.Collection(categoriesCollection).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("failed to query categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	batch := s.client.Batch()
	defaults := model.DefaultCategories()
	for _, c := range defaults {
		batch.Set(s.client.Collection(categoriesCollection).Doc(c.ID), c)
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	log.Printf("[Store] Seeded %d categories", len(defaults))
	return nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Category operations

func (s *FirestoreStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	docs, err := s.client.Collection(categoriesCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	out := make([]*model.Category, 0, len(docs))
	for _, doc := range docs {
		var c model.Category
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to parse category: %w", err)
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FirestoreStore) GetCategory(ctx context.Context, categoryID string) (*model.Category, error) {
	doc, err := s.client.Collection(categoriesCollection).Doc(categoryID).Get(ctx)
	if isNotFound(err) {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	var c model.Category
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to parse category: %w", err)
	}
	return &c, nil
}

// User operations

func (s *FirestoreStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	doc, err := s.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if isNotFound(err) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to parse user: %w", err)
	}
	return &user, nil
}

func (s *FirestoreStore) UpsertUser(ctx context.Context, user *model.User) error {
	_, err := s.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user)
	return err
}

// Budget operations

// CreateBudget inserts the budget inside a transaction that rejects a second
// budget for the same user and category.
func (s *FirestoreStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	col := s.client.Collection(budgetsCollection)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		q := col.Where("UserID", "==", budget.UserID).Where("CategoryID", "==", budget.CategoryID).Limit(1)
		dupes, err := tx.Documents(q).GetAll()
		if err != nil {
			return fmt.Errorf("failed to check existing budget: %w", err)
		}
		if len(dupes) > 0 {
			return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
		}
		return tx.Create(col.Doc(budget.ID), budget)
	})
}

func (s *FirestoreStore) GetBudget(ctx context.Context, budgetID string) (*model.Budget, error) {
	doc, err := s.client.Collection(budgetsCollection).Doc(budgetID).Get(ctx)
	if isNotFound(err) {
		return nil, fmt.Errorf("budget %s: %w", budgetID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	var budget model.Budget
	if err := doc.DataTo(&budget); err != nil {
		return nil, fmt.Errorf("failed to parse budget: %w", err)
	}
	return &budget, nil
}

func (s *FirestoreStore) GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*model.Budget, error) {
	docs, err := s.client.Collection(budgetsCollection).
		Where("UserID", "==", userID).
		Where("CategoryID", "==", categoryID).
		Limit(1).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("budget for category %s: %w", categoryID, ErrNotFound)
	}

	var budget model.Budget
	if err := docs[0].DataTo(&budget); err != nil {
		return nil, fmt.Errorf("failed to parse budget: %w", err)
	}
	return &budget, nil
}

func (s *FirestoreStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	col := s.client.Collection(budgetsCollection)
	ref := col.Doc(budget.ID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("budget %s: %w", budget.ID, ErrNotFound)
			}
			return fmt.Errorf("failed to get budget: %w", err)
		}
		q := col.Where("UserID", "==", budget.UserID).Where("CategoryID", "==", budget.CategoryID)
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return fmt.Errorf("failed to check existing budget: %w", err)
		}
		for _, doc := range docs {
			if doc.Ref.ID != budget.ID {
				return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
			}
		}
		return tx.Set(ref, budget)
	})
}

// DeleteBudget removes the budget and all of its entries atomically.
func (s *FirestoreStore) DeleteBudget(ctx context.Context, budgetID string) error {
	ref := s.client.Collection(budgetsCollection).Doc(budgetID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("budget %s: %w", budgetID, ErrNotFound)
			}
			return fmt.Errorf("failed to get budget: %w", err)
		}

		entries, err := tx.Documents(s.client.Collection(entriesCollection).Where("BudgetID", "==", budgetID)).GetAll()
		if err != nil {
			return fmt.Errorf("failed to query budget entries: %w", err)
		}
		for _, doc := range entries {
			if err := tx.Delete(doc.Ref); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
}

func (s *FirestoreStore) ListBudgets(ctx context.Context, userID string) ([]*model.Budget, error) {
	docs, err := s.client.Collection(budgetsCollection).Where("UserID", "==", userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	var out []*model.Budget
	for _, doc := range docs {
		var budget model.Budget
		if err := doc.DataTo(&budget); err != nil {
			return nil, fmt.Errorf("failed to parse budget: %w", err)
		}
		out = append(out, &budget)
	}
	sortBudgets(out)
	return out, nil
}

// Entry operations

func (s *FirestoreStore) CreateEntry(ctx context.Context, entry *model.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.client.Collection(entriesCollection).Doc(entry.ID).Create(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetEntry(ctx context.Context, entryID string) (*model.Entry, error) {
	doc, err := s.client.Collection(entriesCollection).Doc(entryID).Get(ctx)
	if isNotFound(err) {
		return nil, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var entry model.Entry
	if err := doc.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to parse entry: %w", err)
	}
	entry.Date = entry.Date.UTC()
	return &entry, nil
}

func (s *FirestoreStore) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	ref := s.client.Collection(entriesCollection).Doc(entry.ID)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("entry %s: %w", entry.ID, ErrNotFound)
			}
			return fmt.Errorf("failed to get entry: %w", err)
		}
		return tx.Set(ref, entry)
	})
}

func (s *FirestoreStore) DeleteEntry(ctx context.Context, entryID string) error {
	ref := s.client.Collection(entriesCollection).Doc(entryID)

	// Exists precondition turns a missing document into NotFound
	_, err := ref.Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListEntries(ctx context.Context, filter EntryFilter) ([]*model.Entry, error) {
	entries, err := s.queryEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	SortEntries(entries)
	return entries, nil
}

// ListEntriesPage filters in Firestore and sorts and slices client-side, so
// any sort key works without a composite index per key.
func (s *FirestoreStore) ListEntriesPage(ctx context.Context, filter EntryFilter, page EntryPageRequest) ([]*model.Entry, int, error) {
	entries, err := s.queryEntries(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, total := paginateEntries(entries, page)
	return out, total, nil
}

func (s *FirestoreStore) queryEntries(ctx context.Context, filter EntryFilter) ([]*model.Entry, error) {
	query := s.client.Collection(entriesCollection).Query
	if filter.UserID != "" {
		query = query.Where("UserID", "==", filter.UserID)
	}
	if filter.CategoryID != "" {
		query = query.Where("CategoryID", "==", filter.CategoryID)
	}
	if filter.BudgetID != "" {
		query = query.Where("BudgetID", "==", filter.BudgetID)
	}
	if filter.StatsType != "" {
		query = query.Where("StatsType", "==", string(filter.StatsType))
	}
	if filter.Start != nil {
		query = query.Where("Date", ">=", period.Day(*filter.Start))
	}
	if filter.End != nil {
		query = query.Where("Date", "<=", *filter.End)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	out := make([]*model.Entry, 0, len(docs))
	for _, doc := range docs {
		var entry model.Entry
		if err := doc.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to parse entry: %w", err)
		}
		entry.Date = entry.Date.UTC()
		if filter.Matches(&entry) {
			out = append(out, &entry)
		}
	}
	return out, nil
}
