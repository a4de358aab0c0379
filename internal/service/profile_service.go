package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/castlemilk/budgetwise/backend/internal/analytics"
	"github.com/castlemilk/budgetwise/backend/internal/auth"
)

// GetProfile returns the caller's user record and derived profile.
func (s *BudgetService) GetProfile(ctx context.Context, req *connect.Request[GetProfileRequest]) (*connect.Response[ProfileResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.ensureUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&ProfileResponse{User: user, Profile: analytics.BuildProfile(user)}), nil
}

// UpdateProfile sets the profile attributes present in the request.
func (s *BudgetService) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[ProfileResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	var errs fieldErrors
	if msg.Salary != nil && *msg.Salary < 0 {
		errs.add("salary", "The salary must be at least 0.")
	}
	if msg.Age != nil && *msg.Age < 0 {
		errs.add("age", "The age must be at least 0.")
	}
	if msg.Gender != nil && *msg.Gender != "male" && *msg.Gender != "female" {
		errs.add("gender", "The selected gender is invalid.")
	}
	if msg.FamilyMembersCount != nil && *msg.FamilyMembersCount < 0 {
		errs.add("family_members_count", "The family members count must be at least 0.")
	}
	if msg.IsFamilyProvider != nil && *msg.IsFamilyProvider && msg.FamilyMembersCount == nil {
		errs.add("family_members_count", "The family members count is required when the user is a family provider.")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user, err := s.ensureUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if msg.Salary != nil {
		user.Salary = msg.Salary
	}
	if msg.Age != nil {
		user.Age = msg.Age
	}
	if msg.Gender != nil {
		user.Gender = msg.Gender
	}
	if msg.IsSingle != nil {
		user.IsSingle = msg.IsSingle
	}
	if msg.IsFamilyProvider != nil {
		user.IsFamilyProvider = msg.IsFamilyProvider
	}
	if msg.FamilyMembersCount != nil {
		user.FamilyMembersCount = msg.FamilyMembersCount
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.store.UpsertUser(ctx, user); err != nil {
		return nil, mapStoreError("update user", err)
	}

	return connect.NewResponse(&ProfileResponse{
		Message: "Profile updated successfully",
		User:    user,
		Profile: analytics.BuildProfile(user),
	}), nil
}
