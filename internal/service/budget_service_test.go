package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

var foodCategory = &model.Category{ID: "food-dining", Name: "Food & Dining"}

func newMockService(t *testing.T) (*BudgetService, *store.MockStore) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)
	svc := fixedClock(NewBudgetService(mockStore, nil, nil), testNow)
	return svc, mockStore
}

func amount(v float64) *float64 { return &v }

func assertCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), "error: %v", err)
}

func TestCreateBudget(t *testing.T) {
	svc, mockStore := newMockService(t)
	ctx := testContextWithUser("user-1")

	mockStore.EXPECT().GetCategory(gomock.Any(), "food-dining").Return(foodCategory, nil)
	mockStore.EXPECT().GetUser(gomock.Any(), "user-1").Return(&model.User{ID: "user-1"}, nil)
	mockStore.EXPECT().
		CreateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, budget *model.Budget) error {
			assert.Equal(t, "user-1", budget.UserID)
			assert.Equal(t, "food-dining", budget.CategoryID)
			assert.Equal(t, "Food & Dining", budget.Name)
			assert.Equal(t, 500.0, budget.Amount)
			assert.NotEmpty(t, budget.ID)
			assert.Equal(t, testNow, budget.CreatedAt)
			return nil
		})

	resp, err := svc.CreateBudget(ctx, connect.NewRequest(&CreateBudgetRequest{
		CategoryID: "food-dining",
		Amount:     amount(500),
	}))

	require.NoError(t, err)
	assert.Equal(t, "Budget created successfully.", resp.Msg.Message)
	assert.Equal(t, foodCategory, resp.Msg.Budget.Category)
}

func TestCreateBudget_CreatesMissingUser(t *testing.T) {
	svc, mockStore := newMockService(t)
	ctx := testContextWithUser("user-1")

	mockStore.EXPECT().GetCategory(gomock.Any(), "food-dining").Return(foodCategory, nil)
	mockStore.EXPECT().GetUser(gomock.Any(), "user-1").Return(nil, store.ErrNotFound)
	mockStore.EXPECT().
		UpsertUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u *model.User) error {
			assert.Equal(t, "user-1", u.ID)
			assert.Equal(t, "user-1@test.local", u.Email)
			return nil
		})
	mockStore.EXPECT().CreateBudget(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.CreateBudget(ctx, connect.NewRequest(&CreateBudgetRequest{
		CategoryID: "food-dining",
		Name:       "Groceries",
		Amount:     amount(0),
	}))
	require.NoError(t, err)
}

func TestCreateBudget_Duplicate(t *testing.T) {
	svc, mockStore := newMockService(t)
	ctx := testContextWithUser("user-1")

	mockStore.EXPECT().GetCategory(gomock.Any(), "food-dining").Return(foodCategory, nil)
	mockStore.EXPECT().GetUser(gomock.Any(), "user-1").Return(&model.User{ID: "user-1"}, nil)
	mockStore.EXPECT().CreateBudget(gomock.Any(), gomock.Any()).Return(store.ErrAlreadyExists)

	_, err := svc.CreateBudget(ctx, connect.NewRequest(&CreateBudgetRequest{
		CategoryID: "food-dining",
		Amount:     amount(100),
	}))
	assertCode(t, err, connect.CodeAlreadyExists)
	assert.Contains(t, err.Error(), "A budget already exists for this category.")
}

func TestCreateBudget_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *CreateBudgetRequest
		want string
	}{
		{"missing category", &CreateBudgetRequest{Amount: amount(10)}, "category_id"},
		{"missing amount", &CreateBudgetRequest{CategoryID: "food-dining"}, "Please enter an amount."},
		{"negative amount", &CreateBudgetRequest{CategoryID: "food-dining", Amount: amount(-1)}, "at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newMockService(t)
			_, err := svc.CreateBudget(testContextWithUser("user-1"), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCreateBudget_UnknownCategory(t *testing.T) {
	svc, mockStore := newMockService(t)

	mockStore.EXPECT().GetCategory(gomock.Any(), "nope").Return(nil, store.ErrNotFound)

	_, err := svc.CreateBudget(testContextWithUser("user-1"), connect.NewRequest(&CreateBudgetRequest{
		CategoryID: "nope",
		Amount:     amount(10),
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateBudget_Unauthenticated(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.CreateBudget(context.Background(), connect.NewRequest(&CreateBudgetRequest{
		CategoryID: "food-dining",
		Amount:     amount(10),
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestUpdateBudget(t *testing.T) {
	svc, mockStore := newMockService(t)
	ctx := testContextWithUser("user-1")
	existing := &model.Budget{ID: "b1", UserID: "user-1", CategoryID: "food-dining", Name: "Food", Amount: 100}

	mockStore.EXPECT().GetBudgetByCategory(gomock.Any(), "user-1", "food-dining").Return(existing, nil)
	mockStore.EXPECT().
		UpdateBudget(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, b *model.Budget) error {
			assert.Equal(t, 250.0, b.Amount)
			assert.Equal(t, "Food", b.Name)
			assert.Equal(t, testNow, b.UpdatedAt)
			return nil
		})
	mockStore.EXPECT().GetCategory(gomock.Any(), "food-dining").Return(foodCategory, nil)

	resp, err := svc.UpdateBudget(ctx, connect.NewRequest(&UpdateBudgetRequest{
		CategoryID: "food-dining",
		Amount:     amount(250),
	}))
	require.NoError(t, err)
	assert.Equal(t, "Budget updated successfully.", resp.Msg.Message)
}

func TestUpdateBudget_NotFound(t *testing.T) {
	svc, mockStore := newMockService(t)

	mockStore.EXPECT().GetBudgetByCategory(gomock.Any(), "user-1", "food-dining").Return(nil, store.ErrNotFound)

	_, err := svc.UpdateBudget(testContextWithUser("user-1"), connect.NewRequest(&UpdateBudgetRequest{
		CategoryID: "food-dining",
		Amount:     amount(250),
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestDeleteBudget(t *testing.T) {
	svc, mockStore := newMockService(t)
	ctx := testContextWithUser("user-1")

	mockStore.EXPECT().GetBudgetByCategory(gomock.Any(), "user-1", "food-dining").
		Return(&model.Budget{ID: "b1", UserID: "user-1", CategoryID: "food-dining"}, nil)
	mockStore.EXPECT().DeleteBudget(gomock.Any(), "b1").Return(nil)

	resp, err := svc.DeleteBudget(ctx, connect.NewRequest(&DeleteBudgetRequest{CategoryID: "food-dining"}))
	require.NoError(t, err)
	assert.Equal(t, "Budget deleted successfully.", resp.Msg.Message)
}

func TestDeleteBudget_StoreFailure(t *testing.T) {
	svc, mockStore := newMockService(t)

	mockStore.EXPECT().GetBudgetByCategory(gomock.Any(), "user-1", "food-dining").
		Return(nil, errors.New("connection reset"))

	_, err := svc.DeleteBudget(testContextWithUser("user-1"), connect.NewRequest(&DeleteBudgetRequest{CategoryID: "food-dining"}))
	assertCode(t, err, connect.CodeInternal)
}

func TestListBudgets(t *testing.T) {
	svc, mockStore := newMockService(t)

	mockStore.EXPECT().ListBudgets(gomock.Any(), "user-1").Return([]*model.Budget{
		{ID: "b1", UserID: "user-1", CategoryID: "food-dining", Amount: 100},
		{ID: "b2", UserID: "user-1", CategoryID: "unknown", Amount: 50},
	}, nil)
	mockStore.EXPECT().ListCategories(gomock.Any()).Return([]*model.Category{foodCategory}, nil)

	resp, err := svc.ListBudgets(testContextWithUser("user-1"), connect.NewRequest(&ListBudgetsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Budgets, 2)
	assert.Equal(t, foodCategory, resp.Msg.Budgets[0].Category)
	assert.Nil(t, resp.Msg.Budgets[1].Category)
}

func TestListCategories(t *testing.T) {
	svc, mockStore := newMockService(t)

	mockStore.EXPECT().ListCategories(gomock.Any()).Return(model.DefaultCategories(), nil)

	resp, err := svc.ListCategories(testContextWithUser("user-1"), connect.NewRequest(&ListCategoriesRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Categories, 12)
}
