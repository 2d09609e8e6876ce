package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
)

type fakeUserRepo struct {
	byEmail map[string]*entities.User
	byID    map[uint64]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	f := &fakeUserRepo{byEmail: make(map[string]*entities.User), byID: make(map[uint64]*entities.User)}
	for _, u := range users {
		f.byEmail[u.Email] = u
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id uint64) (*entities.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*entities.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, _ *entities.User) (uint64, error) {
	panic("не используется в тестах")
}

func newTestAuthService(t *testing.T) (*AuthService, service.JWTService) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	userRepo := newFakeUserRepo(&entities.User{
		ID:           1,
		Email:        "manager@gearguard.local",
		PasswordHash: string(hash),
		Role:         entities.RoleManager,
	})
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour)
	return NewAuthService(userRepo, jwtSvc, zap.NewNop()), jwtSvc
}

func TestLogin(t *testing.T) {
	svc, jwtSvc := newTestAuthService(t)

	tokens, err := svc.Login(context.Background(), &dto.LoginDTO{
		Email:    "manager@gearguard.local",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := jwtSvc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.False(t, claims.IsRefreshToken)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginDTO{
		Email:    "manager@gearguard.local",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Несуществующий email неотличим от неверного пароля.
	_, err = svc.Login(context.Background(), &dto.LoginDTO{
		Email:    "ghost@gearguard.local",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestAuthService(t)

	tokens, err := svc.Login(context.Background(), &dto.LoginDTO{
		Email:    "manager@gearguard.local",
		Password: "secret123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), &dto.RefreshDTO{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access-токен в обмен не принимается.
	_, err = svc.Refresh(context.Background(), &dto.RefreshDTO{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
