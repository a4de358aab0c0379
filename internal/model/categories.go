package model

// DefaultCategories returns the seeded category taxonomy. IDs are stable and
// shared by every store backend.
func DefaultCategories() []*Category {
	return []*Category{
		{ID: "housing", Name: "Housing", Description: "Rent, utilities, internet, and home maintenance expenses."},
		{ID: "food-dining", Name: "Food & Dining", Description: "Groceries, restaurants, cafes, and food delivery."},
		{ID: "transportation", Name: "Transportation", Description: "Public transport, fuel, ride-hailing, and vehicle maintenance."},
		{ID: "health-medical", Name: "Health & Medical", Description: "Doctor visits, medications, insurance, and wellness expenses."},
		{ID: "personal-lifestyle", Name: "Personal & Lifestyle", Description: "Clothing, personal care, gym, and hobbies."},
		{ID: "education", Name: "Education", Description: "Courses, books, certifications, and learning subscriptions."},
		{ID: "entertainment", Name: "Entertainment", Description: "Movies, streaming services, games, and events."},
		{ID: "shopping", Name: "Shopping", Description: "Electronics, home items, accessories, and online purchases."},
		{ID: "bills-subscriptions", Name: "Bills & Subscriptions", Description: "Phone plans, streaming platforms, and software subscriptions."},
		{ID: "savings", Name: "Savings", Description: "Emergency fund, investments, and financial goals."},
		{ID: "donations-gifts", Name: "Donations & Gifts", Description: "Charity donations, gifts for others, and special occasions."},
		{ID: "other", Name: "Other", Description: "Other expenses that do not fit into the above categories."},
	}
}
