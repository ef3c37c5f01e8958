package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/polycampus/backend/internal/app/models"
	"github.com/polycampus/backend/internal/app/models/dto"
	"github.com/polycampus/backend/internal/app/repositories"
	"github.com/polycampus/backend/internal/pkg/apperrors"
	pkgauth "github.com/polycampus/backend/internal/pkg/auth"
)

// AuthService handles admin-console session operations: password login,
// refresh token rotation and logout.
type AuthService struct {
	users  *repositories.UserRepository
	tokens *repositories.TokenRepository
	jwt    *pkgauth.JWTService
	logger zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users *repositories.UserRepository, tokens *repositories.TokenRepository, jwt *pkgauth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		logger: logger,
	}
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error resolving user: %w", err)
	}

	if !pkgauth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.users.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error checking role: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")

	return &dto.AuthResponse{
		Token: *token,
		User: dto.UserResponse{
			ID:      user.ID,
			Email:   user.Email,
			IsAdmin: isAdmin,
		},
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, expiryDate, isRevoked, err := s.tokens.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error resolving refresh token: %w", err)
	}

	if isRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(expiryDate) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error resolving user: %w", err)
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token. Revoking an already-revoked token is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// Profile returns the account behind userID with its admin standing.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.users.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error checking role: %w", err)
	}

	return &dto.UserResponse{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: isAdmin,
	}, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokens.Create(ctx, refreshToken, user.ID, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
