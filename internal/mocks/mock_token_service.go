package mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateTokenFunc        func(user domain.User) (string, error)
	GenerateRefreshTokenFunc func(user domain.User) (string, error)
	VerifyTokenFunc          func(token string) *domain.TokenClaims
	UserFromTokenFunc        func(ctx context.Context, token string) *domain.User
}

// NewMockTokenService creates a new MockTokenService with default behaviors.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) GenerateToken(user domain.User) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(user)
	}
	return fmt.Sprintf("header.access-%s.sig", user.ID), nil
}

func (m *MockTokenService) GenerateRefreshToken(user domain.User) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(user)
	}
	return fmt.Sprintf("header.refresh-%s.sig", user.ID), nil
}

func (m *MockTokenService) VerifyToken(token string) *domain.TokenClaims {
	if m.VerifyTokenFunc != nil {
		return m.VerifyTokenFunc(token)
	}
	if token == "" {
		return nil
	}
	now := time.Now().Unix()
	return &domain.TokenClaims{
		Subject:   "u-1",
		UserID:    "u-1",
		Provider:  string(domain.AuthMethodGoogle),
		IssuedAt:  now,
		ExpiresAt: now + 900,
	}
}

func (m *MockTokenService) UserFromToken(ctx context.Context, token string) *domain.User {
	if m.UserFromTokenFunc != nil {
		return m.UserFromTokenFunc(ctx, token)
	}
	claims := m.VerifyToken(token)
	if claims == nil {
		return nil
	}
	user := domain.NewAuthenticatedUser(claims.Subject, claims.Email, "", domain.AuthMethod(claims.Provider), time.Now())
	return &user
}
