// Package alerts delivers budget threshold notifications produced when a
// spending record pushes a budget past the warning threshold.
package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
)

// BudgetAlert describes a budget crossing a warning threshold.
type BudgetAlert struct {
	UserID         string             `json:"user_id"`
	BudgetID       string             `json:"budget_id"`
	CategoryID     string             `json:"category_id"`
	PercentageUsed float64            `json:"percentage_used"`
	Status         analytics.Status   `json:"status"`
	Severity       analytics.Severity `json:"severity"`
	Message        string             `json:"message"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// NewBudgetAlert builds an alert from a record warning and the budget state
// it was derived from.
func NewBudgetAlert(userID, budgetID, categoryID string, snap analytics.BudgetSnapshot, w analytics.Warning, at time.Time) BudgetAlert {
	return BudgetAlert{
		UserID:         userID,
		BudgetID:       budgetID,
		CategoryID:     categoryID,
		PercentageUsed: snap.PercentageUsed,
		Status:         snap.Status,
		Severity:       w.Severity,
		Message:        w.Message,
		OccurredAt:     at.UTC(),
	}
}

func (a BudgetAlert) marshal() ([]byte, error) {
	return json.Marshal(a)
}

// Notifier receives budget alerts.
type Notifier interface {
	Notify(ctx context.Context, alert BudgetAlert) error
}

// LogNotifier writes alerts to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, a BudgetAlert) error {
	log.Printf("[Alerts] %s budget %s (user %s) at %.2f%%: %s", a.Severity, a.BudgetID, a.UserID, a.PercentageUsed, a.Message)
	return nil
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, a BudgetAlert) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
