package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/auth"
	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/repository"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

func newUserService(t *testing.T) *service.UserService {
	t.Helper()
	e := newEnv(t)
	issuer, err := auth.NewTokenIssuer("test-secret", "backoffice-api", time.Hour)
	require.NoError(t, err)
	return service.NewUserService(repository.NewUserRepository(e.db), issuer, zap.NewNop())
}

func TestLoginIssuesToken(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:    "finance@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleAppUser,
	})
	require.NoError(t, err)

	resp, err := users.Login(ctx, &domain.LoginRequest{
		Email:    "Finance@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "finance@example.com", resp.User.Email)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:    "finance@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleAppUser,
	})
	require.NoError(t, err)

	_, err = users.Login(ctx, &domain.LoginRequest{
		Email:    "finance@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = users.Login(ctx, &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	issuer, err := auth.NewTokenIssuer("test-secret", "backoffice-api", time.Hour)
	require.NoError(t, err)
	userRepo := repository.NewUserRepository(e.db)
	users := service.NewUserService(userRepo, issuer, zap.NewNop())

	created, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:    "finance@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleAppUser,
	})
	require.NoError(t, err)

	user, err := userRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, e.db.Save(user).Error)

	_, err = users.Login(ctx, &domain.LoginRequest{
		Email:    "finance@example.com",
		Password: "s3cret-pass",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	_, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:    "finance@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleAppUser,
	})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.CreateUserRequest{
		Email:    "FINANCE@example.com",
		Password: "other-pass",
		Role:     domain.RoleAppAdmin,
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestDeleteUserCannotDeleteSelf(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	created, err := users.Create(ctx, &domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleAppAdmin,
	})
	require.NoError(t, err)

	err = users.Delete(ctx, created.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	users := newUserService(t)
	ctx := context.Background()

	require.NoError(t, users.EnsureBootstrapAdmin(ctx, "admin@example.com", "bootstrap-pass"))

	resp, err := users.Login(ctx, &domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "bootstrap-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAppAdmin, resp.User.Role)

	// A second call is a no-op once users exist.
	require.NoError(t, users.EnsureBootstrapAdmin(ctx, "other@example.com", "x"))
	_, err = users.Login(ctx, &domain.LoginRequest{Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
