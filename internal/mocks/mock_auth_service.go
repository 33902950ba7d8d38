package mocks

import (
	"context"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockAuthService implements domain.AuthService for testing.
type MockAuthService struct {
	LoginWithOAuthFunc    func(ctx context.Context, provider domain.AuthMethod, authorizationCode string) (*domain.LoginResult, error)
	LoginWithEmailOTPFunc func(ctx context.Context, email, code string) (*domain.LoginResult, error)
	RefreshFunc           func(ctx context.Context, refreshToken string) (*domain.LoginResult, error)
	LogoutFunc            func(ctx context.Context, sessionID string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors.
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func defaultLoginResult(method domain.AuthMethod, email string) *domain.LoginResult {
	user := domain.NewAuthenticatedUser("u-1", email, "Test User", method, time.Now())
	return &domain.LoginResult{
		User:         &user,
		AccessToken:  "header.access.sig",
		RefreshToken: "header.refresh.sig",
		SessionID:    "sess_1",
		ExpiresIn:    900,
	}
}

func (m *MockAuthService) LoginWithOAuth(ctx context.Context, provider domain.AuthMethod, authorizationCode string) (*domain.LoginResult, error) {
	if m.LoginWithOAuthFunc != nil {
		return m.LoginWithOAuthFunc(ctx, provider, authorizationCode)
	}
	return defaultLoginResult(provider, "user@example.com"), nil
}

func (m *MockAuthService) LoginWithEmailOTP(ctx context.Context, email, code string) (*domain.LoginResult, error) {
	if m.LoginWithEmailOTPFunc != nil {
		return m.LoginWithEmailOTPFunc(ctx, email, code)
	}
	return defaultLoginResult(domain.AuthMethodEmail, email), nil
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*domain.LoginResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return defaultLoginResult(domain.AuthMethodGoogle, "user@example.com"), nil
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}
