package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/dto"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/service"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload *dto.LoginDTO) (*dto.TokensDTO, error)
	Refresh(ctx context.Context, payload *dto.RefreshDTO) (*dto.TokensDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepositoryInterface, jwtService service.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login проверяет учётные данные и выдаёт пару токенов. Несуществующий
// email и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, payload *dto.LoginDTO) (*dto.TokensDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		s.logger.Warn("неудачная попытка входа", zap.String("email", payload.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokensDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh обменивает refresh-токен на новую пару. Access-токен в этом
// месте не принимается.
func (s *AuthService) Refresh(ctx context.Context, payload *dto.RefreshDTO) (*dto.TokensDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrInvalidToken
	}

	// Пользователь мог быть удалён после выдачи токена.
	user, err := s.userRepo.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	accessToken, refreshToken, err := s.jwtService.GenerateTokens(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.TokensDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
