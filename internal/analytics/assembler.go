package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"golang.org/x/sync/errgroup"
)

// Source is the read access the assembler needs. store.Store satisfies it.
type Source interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListBudgets(ctx context.Context, userID string) ([]*model.Budget, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	ListEntries(ctx context.Context, filter store.EntryFilter) ([]*model.Entry, error)
}

// Assembler loads the records behind a FinancialContext.
type Assembler struct {
	src Source
}

// NewAssembler creates an assembler reading from src.
func NewAssembler(src Source) *Assembler {
	return &Assembler{src: src}
}

// Gather loads the user, budgets, categories and entries needed for opts
// concurrently and builds the context. A user without a stored profile is
// not an error.
func (a *Assembler) Gather(ctx context.Context, userID string, opts ContextOptions, asOf time.Time) (*FinancialContext, error) {
	kind, anchor, rng, err := opts.Window(asOf)
	if err != nil {
		return nil, err
	}

	var in ContextInput
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := a.src.GetUser(gctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		in.User = user
		return nil
	})
	g.Go(func() error {
		budgets, err := a.src.ListBudgets(gctx, userID)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		in.Budgets = budgets
		return nil
	})
	g.Go(func() error {
		categories, err := a.src.ListCategories(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		in.Categories = model.CategoryMap(categories)
		return nil
	})
	g.Go(func() error {
		filter := store.ForRange(userID, rng)
		filter.CategoryID = opts.CategoryID
		entries, err := a.src.ListEntries(gctx, filter)
		if err != nil {
			return fmt.Errorf("load entries: %w", err)
		}
		in.Entries = entries
		return nil
	})
	if opts.WantsHistory() {
		g.Go(func() error {
			// The previous total spans every category, even for a
			// category-scoped context.
			entries, err := a.src.ListEntries(gctx, store.ForRange(userID, period.Previous(kind, anchor)))
			if err != nil {
				return fmt.Errorf("load previous entries: %w", err)
			}
			in.PreviousEntries = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BuildContext(userID, in, opts, asOf)
}
