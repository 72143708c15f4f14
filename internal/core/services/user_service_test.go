package services

import (
	"context"
	"testing"

	"dailywage-hub/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_KeepsRole(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, worker := env.user(t, "wrk", domain.RoleWorker)

	name := "Ravi"
	skills := []string{"masonry"}
	got, err := env.users.UpdateProfile(ctx, worker, &UpdateProfileInput{Name: &name, Skills: &skills})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, domain.RoleWorker, got.Role)

	list, total, err := env.users.ListUsers(ctx, &ListUsersInput{Role: domain.RoleWorker, Skill: "masonry"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].NationalID)
}

func TestGetUserByID_PrivateFields(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	reg, err := env.auth.Register(ctx, registerInput("asha", domain.RoleWorker))
	require.NoError(t, err)
	_, employer := env.user(t, "emp", domain.RoleEmployer)
	_, admin := env.user(t, "root", domain.RoleAdmin)

	self := domain.Principal{UserID: reg.User.ID, Role: domain.RoleWorker}
	for _, p := range []domain.Principal{self, admin} {
		got, err := env.users.GetUserByID(ctx, p, reg.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "XXXX-1234", got.NationalID)
	}

	got, err := env.users.GetUserByID(ctx, employer, reg.User.ID)
	require.NoError(t, err)
	assert.Empty(t, got.NationalID)

	_, err = env.users.GetUserByID(ctx, employer, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	ctx := context.Background()
	_, worker := env.user(t, "wrk", domain.RoleWorker)

	err := env.users.ChangePassword(ctx, worker, &ChangePasswordInput{OldPassword: "nope", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = env.users.ChangePassword(ctx, worker, &ChangePasswordInput{OldPassword: "password123", NewPassword: "short"})
	requireKind(t, err, domain.KindValidation)

	require.NoError(t, env.users.ChangePassword(ctx, worker, &ChangePasswordInput{OldPassword: "password123", NewPassword: "newpassword1"}))

	_, err = env.auth.Login(ctx, &LoginInput{Username: "wrk", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, &LoginInput{Username: "wrk", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestListUsers_InvalidRole(t *testing.T) {
	env := newTestEnv(t, domain.LifecyclePolicy{})
	_, _, err := env.users.ListUsers(context.Background(), &ListUsersInput{Role: "boss"})
	requireKind(t, err, domain.KindValidation)
}
