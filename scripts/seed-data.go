//go:build ignore
// +build ignore

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/service"
)

func main() {
	// Get API URL from environment or use default
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}

	// Get auth token if provided (for authenticated requests)
	authToken := os.Getenv("AUTH_TOKEN")
	impersonate := os.Getenv("USER_ID")

	log.Printf("📡 API URL: %s", apiURL)

	var opts []connect.ClientOption
	switch {
	case authToken != "":
		log.Println("🔐 Using provided auth token")
		opts = append(opts, connect.WithInterceptors(headerInterceptor("Authorization", "Bearer "+authToken)))
	case impersonate != "":
		log.Printf("🎭 Impersonating %s - backend must be running with SKIP_AUTH=true", impersonate)
		opts = append(opts, connect.WithInterceptors(headerInterceptor("X-Debug-Impersonate-User", impersonate)))
	default:
		log.Println("ℹ️  No auth token provided - backend must be running with SKIP_AUTH=true or ENV=local")
	}

	client := service.NewBudgetServiceClient(&http.Client{}, apiURL, opts...)
	ctx := context.Background()

	if err := seedBudgets(ctx, client); err != nil {
		log.Fatalf("Failed to seed budgets: %v", err)
	}
	if err := seedEntries(ctx, client); err != nil {
		log.Fatalf("Failed to seed entries: %v", err)
	}
	if err := seedProfile(ctx, client); err != nil {
		log.Fatalf("Failed to seed profile: %v", err)
	}

	log.Println("✅ Successfully seeded all test data!")

	// Verify seeded data is queryable
	log.Println("")
	log.Println("🔍 Verifying seeded data is queryable...")
	if err := verifySeededData(ctx, client); err != nil {
		log.Fatalf("❌ Verification failed: %v", err)
	}
	log.Println("✅ All data verified successfully!")
}

func headerInterceptor(name, value string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set(name, value)
			return next(ctx, req)
		}
	}
}

func seedBudgets(ctx context.Context, client *service.BudgetServiceClient) error {
	log.Println("💰 Creating budgets...")

	budgets := []struct {
		categoryID string
		amount     float64
	}{
		{"housing", 2400},
		{"food-dining", 800},
		{"transportation", 300},
		{"entertainment", 150},
		{"bills-subscriptions", 120},
		{"health-medical", 200},
		{"shopping", 250},
	}

	for _, b := range budgets {
		amount := b.amount
		_, err := client.CreateBudget(ctx, connect.NewRequest(&service.CreateBudgetRequest{
			CategoryID: b.categoryID,
			Amount:     &amount,
		}))
		if connect.CodeOf(err) == connect.CodeAlreadyExists {
			log.Printf("  ↷ %s budget already exists", b.categoryID)
			continue
		}
		if err != nil {
			return err
		}
		log.Printf("  ✓ %s: $%.2f", b.categoryID, b.amount)
	}
	return nil
}

func seedEntries(ctx context.Context, client *service.BudgetServiceClient) error {
	log.Println("📝 Creating spending records...")

	entries := []struct {
		description string
		amount      float64
		categoryID  string
		statsType   string
		daysAgo     int
	}{
		// This week
		{"Grocery shopping at Woolworths", 156.80, "food-dining", "weekly", 0},
		{"Netflix subscription", 22.99, "bills-subscriptions", "monthly", 1},
		{"Uber ride to work", 18.50, "transportation", "daily", 1},
		{"Coffee at local cafe", 6.50, "food-dining", "daily", 2},
		{"Dinner at restaurant", 78.50, "food-dining", "weekly", 4},
		{"Gym membership", 65.00, "health-medical", "monthly", 5},
		{"Amazon purchase - headphones", 149.00, "shopping", "monthly", 5},

		// Last week
		{"Petrol", 95.00, "transportation", "weekly", 8},
		{"Phone bill", 79.00, "bills-subscriptions", "monthly", 9},
		{"Lunch with colleagues", 32.50, "food-dining", "daily", 10},
		{"Movie tickets", 36.00, "entertainment", "weekly", 11},

		// Earlier this month and last month
		{"Weekly groceries", 142.30, "food-dining", "weekly", 14},
		{"Car service", 350.00, "transportation", "monthly", 18},
		{"Takeaway dinner", 45.00, "food-dining", "daily", 24},
		{"Rent payment", 2200.00, "housing", "monthly", 30},
		{"Concert tickets", 120.00, "entertainment", "monthly", 38},
	}

	for _, e := range entries {
		when := time.Now().AddDate(0, 0, -e.daysAgo)
		resp, err := client.CreateEntry(ctx, connect.NewRequest(&service.CreateEntryRequest{
			CategoryID:  e.categoryID,
			Amount:      e.amount,
			Date:        when.Format("2006-01-02"),
			Time:        when.Format("15:04:05"),
			StatsType:   e.statsType,
			Description: e.description,
		}))
		if err != nil {
			return err
		}
		status := resp.Msg.BudgetStatus
		log.Printf("  ✓ %s: $%.2f (%s at %.2f%%)", e.description, e.amount, status.Status, status.PercentageUsed)
		if w := resp.Msg.Warning; w != nil {
			log.Printf("    ⚠️  %s", w.Message)
		}
	}
	return nil
}

func seedProfile(ctx context.Context, client *service.BudgetServiceClient) error {
	log.Println("👤 Updating profile...")

	salary, age, members := 7200.0, 34, 2
	single, provider := false, true
	gender := "female"
	_, err := client.UpdateProfile(ctx, connect.NewRequest(&service.UpdateProfileRequest{
		Salary:             &salary,
		Age:                &age,
		Gender:             &gender,
		IsSingle:           &single,
		IsFamilyProvider:   &provider,
		FamilyMembersCount: &members,
	}))
	return err
}

func verifySeededData(ctx context.Context, client *service.BudgetServiceClient) error {
	budgets, err := client.ListBudgets(ctx, connect.NewRequest(&service.ListBudgetsRequest{}))
	if err != nil {
		return err
	}
	if len(budgets.Msg.Budgets) == 0 {
		return errors.New("no budgets found after seeding")
	}
	log.Printf("  ✓ %d budgets", len(budgets.Msg.Budgets))

	entries, err := client.ListEntries(ctx, connect.NewRequest(&service.ListEntriesRequest{PerPage: 100}))
	if err != nil {
		return err
	}
	if entries.Msg.Meta.Total == 0 {
		return errors.New("no spending records found after seeding")
	}
	log.Printf("  ✓ %d spending records", entries.Msg.Meta.Total)

	overview, err := client.GetOverview(ctx, connect.NewRequest(&service.GetOverviewRequest{}))
	if err != nil {
		return err
	}
	o := overview.Msg.Overview
	log.Printf("  ✓ Overview: $%.2f of $%.2f spent (%s)", o.Spent, o.Budget, o.Status)
	for _, w := range overview.Msg.Warnings {
		log.Printf("    ⚠️  %s", w.Message)
	}
	return nil
}
