package service

import (
	"context"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/auth"
)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

// fixedClock pins a service's notion of now.
func fixedClock(s *BudgetService, now time.Time) *BudgetService {
	s.now = func() time.Time { return now }
	return s
}
