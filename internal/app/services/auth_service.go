package services

import (
	"context"
	"time"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/auth"
	"github.com/campora/campora/internal/pkg/logger"
)

// AuthService handles login, token refresh and password rotation
type AuthService struct {
	tenantRepo *repositories.TenantRepository
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(
	tenantRepo *repositories.TenantRepository,
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials within a tenant and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	tenant, err := s.tenantRepo.GetByCode(ctx, req.TenantCode)
	if err != nil {
		// Do not reveal whether the tenant exists
		return nil, apperrors.ErrInvalidCredentials
	}
	if !tenant.IsActive {
		return nil, apperrors.ErrTenantDisabled
	}

	user, err := s.userRepo.GetByEmail(ctx, tenant.ID, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.TenantID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, pair.RefreshToken, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("userId", user.ID).Msg("Failed to update last login")
	}

	return &dto.TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresIn:        pair.ExpiresIn,
		RefreshExpiresIn: pair.RefreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByIDUnscoped(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.TenantID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, pair.RefreshToken, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresIn:        pair.ExpiresIn,
		RefreshExpiresIn: pair.RefreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}

// Logout revokes the given refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Revoke(ctx, refreshToken)
}

// ChangePassword rotates the caller's password and revokes all refresh tokens
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		logger.Warn().Err(err).Int64("userId", userID).Msg("Failed to revoke refresh tokens after password change")
	}

	return nil
}

// CleanupExpiredTokens removes stale refresh tokens. Called by the scheduler.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	start := time.Now()
	removed, err := s.tokenRepo.CleanupExpired(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info().Int64("removed", removed).Dur("took", time.Since(start)).Msg("Expired refresh tokens cleaned up")
	return removed, nil
}
