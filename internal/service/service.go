package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/alerts"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/assistant"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/store"
)

// BudgetService implements every BudgetService procedure.
type BudgetService struct {
	store    store.Store
	advisor  *assistant.Advisor
	notifier alerts.Notifier
	now      func() time.Time
}

// NewBudgetService creates the service. advisor may be nil, in which case
// assistant procedures fail with FailedPrecondition. A nil notifier logs
// alerts.
func NewBudgetService(s store.Store, advisor *assistant.Advisor, notifier alerts.Notifier) *BudgetService {
	if notifier == nil {
		notifier = alerts.LogNotifier{}
	}
	return &BudgetService{
		store:    s,
		advisor:  advisor,
		notifier: notifier,
		now:      time.Now,
	}
}

// NewAdvisor wires an advisor that reads context from s.
func NewAdvisor(chat assistant.Chatter, s store.Store) *assistant.Advisor {
	return assistant.NewAdvisor(chat, analytics.NewAssembler(s))
}

// ensureUser makes sure the caller has a user record so profile attributes
// can be attached later.
func (s *BudgetService) ensureUser(ctx context.Context, claims *auth.UserClaims) (*model.User, error) {
	u, err := s.store.GetUser(ctx, claims.UID)
	switch {
	case err == nil:
		return u, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, mapStoreError("get user", err)
	}

	now := s.now().UTC()
	u = &model.User{
		ID:          claims.UID,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.UpsertUser(ctx, u); err != nil {
		return nil, mapStoreError("create user", err)
	}
	log.Printf("[BudgetService] Created user record for %s", claims.UID)
	return u, nil
}

func (s *BudgetService) notify(ctx context.Context, alert alerts.BudgetAlert) {
	if err := s.notifier.Notify(ctx, alert); err != nil {
		log.Printf("[BudgetService] Failed to deliver budget alert for %s: %v", alert.BudgetID, err)
	}
}

func (s *BudgetService) categoryMap(ctx context.Context) (map[string]*model.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, mapStoreError("list categories", err)
	}
	return model.CategoryMap(categories), nil
}
