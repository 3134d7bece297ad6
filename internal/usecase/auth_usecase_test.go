package usecase

import (
	"context"
	"testing"

	"careportal/internal/delivery/dto"
	"careportal/internal/infrastructure/database"
	"careportal/internal/service"
	"careportal/pkg/apperror"
	"careportal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "new.member@example.com",
		Password: "supersecret",
		UserType: "member",
		Name:     "New Member",
	})
	require.NoError(t, err)
	assert.NotZero(t, registered.ID)
	assert.Equal(t, "member", registered.UserType)

	_, err = env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "new.member@example.com",
		Password: "supersecret",
		UserType: "member",
		Name:     "Duplicate",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	session, err := env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "new.member@example.com",
		Password: "supersecret",
		UserType: "member",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, registered.ID, session.User.ID)
	assert.False(t, session.User.LastLogin.IsZero())

	validated, err := env.auth.ValidateSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, validated.ID)

	history, err := env.auth.GetLoginHistory(ctx, "new.member@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Success)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "not-an-email",
		Password: "supersecret",
		UserType: "member",
		Name:     "Bad Email",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "short.pw@example.com",
		Password: "short",
		UserType: "member",
		Name:     "Short Password",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = env.auth.Register(ctx, &dto.RegisterUserRequest{
		Email:    "admin@example.com",
		Password: "supersecret",
		UserType: "admin",
		Name:     "Wrong Type",
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestLoginFailuresAreAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Wrong password for an existing account.
	_, err := env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "wrong-password",
		UserType: "member",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown account looks identical from the outside.
	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    "missing@example.com",
		Password: "whatever1",
		UserType: "member",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Right credentials but the wrong portal side.
	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "password123",
		UserType: "doctor",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	history, err := env.auth.GetLoginHistory(ctx, "missing@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].Success)

	all, err := env.auth.GetLoginHistory(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	limiter := service.NewLoginLimiter(2)
	defer limiter.Stop()

	limited := NewAuthUsecase(env.db, env.log, validator.NewValidator(), env.userRepo, env.loginHistoryRepo, env.jwtService, nil, limiter)

	req := &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "wrong-password",
		UserType: "member",
	}
	for i := 0; i < 2; i++ {
		_, err := limited.Login(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := limited.Login(ctx, req)
	assert.ErrorIs(t, err, ErrTooManyLoginAttempts)
}

func TestValidateSessionRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.ValidateSession(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.auth.UpdateUser(ctx, database.SeedMemberEmail, &dto.UpdateUserRequest{
		Name:     "John Q. Doe",
		Password: "betterpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", updated.Name)

	_, err = env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "password123",
		UserType: "member",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	session, err := env.auth.Login(ctx, &dto.LoginRequest{
		Email:    database.SeedMemberEmail,
		Password: "betterpassword",
		UserType: "member",
	})
	require.NoError(t, err)
	assert.Equal(t, "John Q. Doe", session.User.Name)

	require.NoError(t, env.auth.DeleteUser(ctx, database.SeedMemberEmail))

	_, err = env.auth.GetUserByEmail(ctx, database.SeedMemberEmail)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = env.auth.DeleteUser(ctx, database.SeedMemberEmail)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersIncludesSeeds(t *testing.T) {
	env := newTestEnv(t)

	users, err := env.auth.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	emails := []string{users[0].Email, users[1].Email}
	assert.Contains(t, emails, database.SeedMemberEmail)
	assert.Contains(t, emails, database.SeedDoctorEmail)
}
