package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := period.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newBudget(userID, categoryID string, amount float64) *model.Budget {
	return &model.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       categoryID,
		Amount:     amount,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
}

func newEntry(t *testing.T, b *model.Budget, amount float64, date, clock string) *model.Entry {
	return &model.Entry{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		BudgetID:   b.ID,
		Amount:     amount,
		Date:       mustDate(t, date),
		Time:       clock,
		StatsType:  period.Daily,
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
}

// runStoreContract exercises behaviour every Store implementation shares.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("categories are seeded", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		cats, err := s.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, len(model.DefaultCategories()))
		for i := 1; i < len(cats); i++ {
			assert.LessOrEqual(t, cats[i-1].Name, cats[i].Name)
		}

		c, err := s.GetCategory(ctx, "food-dining")
		require.NoError(t, err)
		assert.Equal(t, "Food & Dining", c.Name)

		_, err = s.GetCategory(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("user upsert round trip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetUser(ctx, "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		salary, age, single := 5000.0, 31, false
		u := &model.User{ID: "u1", Email: "a@example.com", Salary: &salary, Age: &age, IsSingle: &single, CreatedAt: baseTime, UpdatedAt: baseTime}
		require.NoError(t, s.UpsertUser(ctx, u))

		got, err := s.GetUser(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, got.Salary)
		assert.Equal(t, 5000.0, *got.Salary)
		assert.Equal(t, 31, *got.Age)
		assert.False(t, *got.IsSingle)
		assert.Nil(t, got.Gender)
		assert.Nil(t, got.FamilyMembersCount)

		age = 32
		require.NoError(t, s.UpsertUser(ctx, u))
		got, err = s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 32, *got.Age)
	})

	t.Run("one budget per user and category", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := newBudget("u1", "housing", 1000)
		require.NoError(t, s.CreateBudget(ctx, b))
		assert.NotEmpty(t, b.ID)

		err := s.CreateBudget(ctx, newBudget("u1", "housing", 200))
		assert.ErrorIs(t, err, ErrAlreadyExists)

		require.NoError(t, s.CreateBudget(ctx, newBudget("u2", "housing", 200)))

		got, err := s.GetBudgetByCategory(ctx, "u1", "housing")
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)

		_, err = s.GetBudgetByCategory(ctx, "u1", "education")
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := s.ListBudgets(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("update budget", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := newBudget("u1", "housing", 1000)
		require.NoError(t, s.CreateBudget(ctx, b))

		b.Amount = 1500
		b.Name = "Rent"
		require.NoError(t, s.UpdateBudget(ctx, b))

		got, err := s.GetBudget(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1500.0, got.Amount)
		assert.Equal(t, "Rent", got.Name)

		err = s.UpdateBudget(ctx, &model.Budget{ID: "missing", UserID: "u1", CategoryID: "other"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete budget cascades to entries", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		housing := newBudget("u1", "housing", 1000)
		food := newBudget("u1", "food-dining", 300)
		require.NoError(t, s.CreateBudget(ctx, housing))
		require.NoError(t, s.CreateBudget(ctx, food))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, housing, 10, "2025-03-01", "10:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, housing, 20, "2025-03-02", "10:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, food, 5, "2025-03-02", "12:00:00")))

		require.NoError(t, s.DeleteBudget(ctx, housing.ID))

		_, err := s.GetBudget(ctx, housing.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		left, err := s.ListEntries(ctx, EntryFilter{UserID: "u1"})
		require.NoError(t, err)
		require.Len(t, left, 1)
		assert.Equal(t, food.ID, left[0].BudgetID)

		assert.ErrorIs(t, s.DeleteBudget(ctx, housing.ID), ErrNotFound)
	})

	t.Run("entry lifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := newBudget("u1", "housing", 1000)
		require.NoError(t, s.CreateBudget(ctx, b))

		e := newEntry(t, b, 42.5, "2025-03-05", "08:30:00")
		e.Description = "rent top-up"
		require.NoError(t, s.CreateEntry(ctx, e))
		require.NotEmpty(t, e.ID)

		got, err := s.GetEntry(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, 42.5, got.Amount)
		assert.Equal(t, "2025-03-05", got.DateString())
		assert.Equal(t, "08:30:00", got.Time)
		assert.Equal(t, period.Daily, got.StatsType)
		assert.Equal(t, "rent top-up", got.Description)

		got.Amount = 50
		got.StatsType = period.Weekly
		require.NoError(t, s.UpdateEntry(ctx, got))

		again, err := s.GetEntry(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, 50.0, again.Amount)
		assert.Equal(t, period.Weekly, again.StatsType)

		require.NoError(t, s.DeleteEntry(ctx, e.ID))
		_, err = s.GetEntry(ctx, e.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteEntry(ctx, e.ID), ErrNotFound)
		assert.ErrorIs(t, s.UpdateEntry(ctx, got), ErrNotFound)
	})

	t.Run("list entries filters by range and sorts chronologically", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := newBudget("u1", "housing", 1000)
		other := newBudget("u2", "housing", 1000)
		require.NoError(t, s.CreateBudget(ctx, b))
		require.NoError(t, s.CreateBudget(ctx, other))

		require.NoError(t, s.CreateEntry(ctx, newEntry(t, b, 3, "2025-03-31", "09:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, b, 1, "2025-03-01", "18:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, b, 2, "2025-03-01", "07:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, b, 9, "2025-04-01", "00:00:00")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, b, 8, "2025-02-28", "23:59:59")))
		require.NoError(t, s.CreateEntry(ctx, newEntry(t, other, 7, "2025-03-15", "12:00:00")))

		rng := period.Resolve(period.Monthly, mustDate(t, "2025-03-15"))
		got, err := s.ListEntries(ctx, ForRange("u1", rng))
		require.NoError(t, err)

		amounts := make([]float64, 0, len(got))
		for _, e := range got {
			amounts = append(amounts, e.Amount)
		}
		assert.Equal(t, []float64{2, 1, 3}, amounts)
	})

	t.Run("paginated listing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		b := newBudget("u1", "housing", 1000)
		require.NoError(t, s.CreateBudget(ctx, b))
		for i := 1; i <= 20; i++ {
			e := newEntry(t, b, float64(i), fmt.Sprintf("2025-03-%02d", i), "12:00:00")
			require.NoError(t, s.CreateEntry(ctx, e))
		}

		page, total, err := s.ListEntriesPage(ctx, EntryFilter{UserID: "u1"}, EntryPageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 20, total)
		require.Len(t, page, DefaultPerPage)
		assert.Equal(t, "2025-03-20", page[0].DateString())

		page, total, err = s.ListEntriesPage(ctx, EntryFilter{UserID: "u1"}, EntryPageRequest{
			SortBy: SortByAmount, SortOrder: SortAsc, Page: 2, PerPage: 8,
		})
		require.NoError(t, err)
		assert.Equal(t, 20, total)
		require.Len(t, page, 8)
		assert.Equal(t, 9.0, page[0].Amount)

		page, _, err = s.ListEntriesPage(ctx, EntryFilter{UserID: "u1"}, EntryPageRequest{Page: 5, PerPage: 10})
		require.NoError(t, err)
		assert.Empty(t, page)
	})
}
