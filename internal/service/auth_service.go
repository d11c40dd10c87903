package service

import (
	"context"
	"errors"
	"time"

	"github.com/Katsud0n0/city-nexus-connect/internal/auth"
	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/domain"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	apperrors "github.com/Katsud0n0/city-nexus-connect/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new portal account. Registration with an already taken
// username is rejected, never merged.
func (s *AuthService) Register(ctx context.Context, username, fullName, department, password string) (*domain.User, string, time.Time, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		FullName:     fullName,
		Department:   department,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", time.Time{}, apperrors.NewConflict("username already registered", map[string]any{"username": username})
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Login authenticates an account. Username comparison is case-sensitive and
// the password check is an exact match against the stored hash.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
		}
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.Username)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// ListUsers returns the full account directory.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
