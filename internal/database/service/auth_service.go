package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
)

// AuthService defines the interface for the authentication gate
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (uint, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        []byte
	cfg              *config.Config
	logger           *slog.Logger
	now              func() time.Time
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        []byte(cfg.JWTSecret),
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	// Soft-deleted users are invisible to the lookup
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokenPair(ctx, user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate tokens", "error", err)
		return nil, nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return user, tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	s.logger.Info("🔄 [AuthService] Token refresh attempt")

	storedToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("⚠️ [AuthService] Invalid refresh token", "error", err)
		return nil, ErrInvalidToken
	}

	if _, err := s.userRepo.FindByID(ctx, storedToken.UserID, models.StateActive); err != nil {
		s.logger.Warn("⚠️ [AuthService] Refresh token owner is not active", "user_id", storedToken.UserID)
		return nil, ErrInvalidToken
	}

	// Revoke first so a token presented twice rotates only once
	if err := s.refreshTokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("❌ [AuthService] Failed to revoke old token", "error", err)
		return nil, err
	}

	tokens, err := s.generateTokenPair(ctx, storedToken.UserID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to generate new tokens", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] Token refreshed successfully", "user_id", storedToken.UserID)
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	s.logger.Info("👋 [AuthService] Logout attempt")

	if err := s.refreshTokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token not found for logout")
			return ErrInvalidToken
		}
		return err
	}

	s.logger.Info("✅ [AuthService] User logged out successfully")
	return nil
}

func (s *authService) ValidateAccessToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["type"] != "access" {
		return 0, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return uint(userID), nil
}

// PurgeExpiredTokens removes refresh tokens past their expiry.
func (s *authService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	removed, err := s.refreshTokenRepo.DeleteExpiredTokens(ctx)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to purge expired tokens", "error", err)
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("🧹 [AuthService] Purged expired refresh tokens", "count", removed)
	}
	return removed, nil
}

// generateTokenPair creates both access and refresh tokens
func (s *authService) generateTokenPair(ctx context.Context, userID uint) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateAndStoreRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.cfg.AccessTokenExpiration,
	}, nil
}

func (s *authService) generateAccessToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    "access",
		"exp":     now.Add(time.Duration(s.cfg.AccessTokenExpiration) * time.Second).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) generateAndStoreRefreshToken(ctx context.Context, userID uint) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := base64.URLEncoding.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		UserID:    userID,
		Token:     tokenString,
		ExpiresAt: s.now().Add(time.Duration(s.cfg.RefreshTokenExpiration) * time.Second),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}
