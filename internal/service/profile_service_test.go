package service

import (
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestProfile_RoundTrip(t *testing.T) {
	svc, _, _ := newMemoryService(t, 100)
	ctx := testContextWithUser("user-1")

	resp, err := svc.GetProfile(ctx, connect.NewRequest(&GetProfileRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.Msg.User.ID)
	assert.Nil(t, resp.Msg.User.Salary)

	updated, err := svc.UpdateProfile(ctx, connect.NewRequest(&UpdateProfileRequest{
		Salary:             ptr(5000.0),
		Age:                ptr(34),
		Gender:             ptr("female"),
		IsFamilyProvider:   ptr(true),
		FamilyMembersCount: ptr(3),
	}))
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully", updated.Msg.Message)
	require.NotNil(t, updated.Msg.Profile)

	again, err := svc.GetProfile(ctx, connect.NewRequest(&GetProfileRequest{}))
	require.NoError(t, err)
	require.NotNil(t, again.Msg.User.Salary)
	assert.Equal(t, 5000.0, *again.Msg.User.Salary)
	assert.Equal(t, 3, *again.Msg.User.FamilyMembersCount)
	assert.Equal(t, testNow, again.Msg.User.UpdatedAt)
}

func TestGetProfile_CreatesUser(t *testing.T) {
	svc, _, _ := newMemoryService(t, 100)

	resp, err := svc.GetProfile(testContextWithUser("newcomer"), connect.NewRequest(&GetProfileRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "newcomer", resp.Msg.User.ID)
	assert.Equal(t, "newcomer@test.local", resp.Msg.User.Email)
}

func TestUpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *UpdateProfileRequest
		want string
	}{
		{"negative salary", &UpdateProfileRequest{Salary: ptr(-1.0)}, "salary"},
		{"negative age", &UpdateProfileRequest{Age: ptr(-3)}, "age"},
		{"unknown gender", &UpdateProfileRequest{Gender: ptr("other")}, "gender"},
		{"negative members", &UpdateProfileRequest{FamilyMembersCount: ptr(-1)}, "family_members_count"},
		{"provider without members", &UpdateProfileRequest{IsFamilyProvider: ptr(true)}, "required when the user is a family provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newMockService(t)
			_, err := svc.UpdateProfile(testContextWithUser("user-1"), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
