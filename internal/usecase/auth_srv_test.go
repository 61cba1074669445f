package usecase

import (
	"context"
	"testing"

	"movie-booking/internal/data/repository"
	"movie-booking/internal/dto/request"
	"movie-booking/pkg/apperr"
	"movie-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService() AuthService {
	repo := &repository.Repository{
		User:    newFakeUserRepo(),
		Session: newFakeSessionRepo(),
	}
	config := &utils.Config{
		JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	}
	return NewAuthService(repo, config, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAuthService()

	auth, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "customer", auth.User.Role)

	claims, err := utils.ParseAccessToken(utils.JWTConfig{Secret: "test-secret"}, auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, claims.UserID)

	login, err := svc.Login(ctx, &request.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAuthService()

	req := &request.RegisterRequest{Name: "Asha", Email: "dup@example.com", Password: "s3cret-pass"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newAuthService()

	_, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "asha@example.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
