// Package auth handles registration, login and token lifecycle.
package auth

import (
	"context"
	"time"

	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/pkg/auth"
	apperrors "github.com/guhospital/hms-api/pkg/errors"
	"github.com/guhospital/hms-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
	expiry time.Duration
}

func NewService(users repository.UserRepository, tokens repository.TokenRepository, jwt auth.JWTService, hasher security.PasswordHasher, accessExpiry time.Duration) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		jwt:    jwt,
		hasher: hasher,
		expiry: accessExpiry,
	}
}

// Register creates a new doctor or patient account and signs it in
func (s *Service) Register(ctx context.Context, req *model.CreateUserRequest) (*model.TokenResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Username:       req.Username,
		PasswordHash:   hash,
		Role:           req.Role,
		Email:          req.Email,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		BloodGroup:     req.BloodGroup,
		Address:        req.Address,
		Specialization: req.Specialization,
		Languages:      req.Languages,
		IsActive:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login verifies credentials and issues a token pair. The same error is
// returned for an unknown username and a wrong password.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled", nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid, unrevoked refresh token for a new pair. The
// presented token is revoked so it cannot be replayed.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	revoked, err := s.tokens.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized("refresh token revoked", nil)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account is disabled", nil)
	}

	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := s.tokens.Revoke(ctx, req.RefreshToken, ttl); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	return s.issueTokens(user)
}

// Logout revokes the presented refresh token for its remaining lifetime
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		// Already invalid or expired; nothing to revoke
		return nil
	}

	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		if err := s.tokens.Revoke(ctx, refreshToken, ttl); err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	refresh, err := s.jwt.GenerateRefreshToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.expiry.Seconds()),
		User:         user,
	}, nil
}
