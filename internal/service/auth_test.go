package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openloom/workspace-chat/internal/domain"
	"github.com/openloom/workspace-chat/internal/security"
)

func newAuthFixture(t *testing.T) (*MockUserRepository, *AuthService) {
	t.Helper()
	users := new(MockUserRepository)
	jwtManager := security.NewJWTManager("test-secret-key-with-32-chars!!", 15*time.Minute, 7*24*time.Hour)
	return users, NewAuthService(users, jwtManager)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users, svc := newAuthFixture(t)
		user := &domain.User{
			ID:           uuid.New(),
			Username:     "alice",
			PasswordHash: hashPassword(t, "s3cret"),
			Role:         domain.RoleDefault,
		}
		users.On("GetByUsername", ctx, "alice").Return(user, nil)

		tokens, err := svc.Login(ctx, domain.UserLogin{Username: "alice", Password: "s3cret"})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Positive(t, tokens.ExpiresIn)
	})

	t.Run("wrong password", func(t *testing.T) {
		users, svc := newAuthFixture(t)
		user := &domain.User{
			ID:           uuid.New(),
			Username:     "alice",
			PasswordHash: hashPassword(t, "s3cret"),
		}
		users.On("GetByUsername", ctx, "alice").Return(user, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users, svc := newAuthFixture(t)
		users.On("GetByUsername", ctx, "ghost").Return(nil, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Username: "ghost", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended account", func(t *testing.T) {
		users, svc := newAuthFixture(t)
		user := &domain.User{
			ID:           uuid.New(),
			Username:     "alice",
			PasswordHash: hashPassword(t, "s3cret"),
			Suspended:    true,
		}
		users.On("GetByUsername", ctx, "alice").Return(user, nil)

		_, err := svc.Login(ctx, domain.UserLogin{Username: "alice", Password: "s3cret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		users, svc := newAuthFixture(t)
		user := &domain.User{
			ID:           uuid.New(),
			Username:     "alice",
			PasswordHash: hashPassword(t, "s3cret"),
		}
		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		users.On("GetByID", ctx, user.ID).Return(user, nil)

		tokens, err := svc.Login(ctx, domain.UserLogin{Username: "alice", Password: "s3cret"})
		require.NoError(t, err)

		refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, svc := newAuthFixture(t)

		_, err := svc.Refresh(ctx, "not-a-token")
		assert.Error(t, err)
	})
}
