package mocks

import (
	"context"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockAuthGateway implements domain.AuthGateway for testing the client
// state machine without network collaborators.
type MockAuthGateway struct {
	SignInWithGoogleFunc func(ctx context.Context, authorizationCode string) domain.AuthResult
	SignInWithAppleFunc  func(ctx context.Context, authorizationCode, identityToken string) domain.AuthResult
	RequestEmailOTPFunc  func(ctx context.Context, email string) *domain.AuthError
	VerifyEmailOTPFunc   func(ctx context.Context, email, otp string) domain.AuthResult
	RefreshSessionFunc   func(ctx context.Context, refreshToken string) domain.AuthResult
}

// NewMockAuthGateway creates a new MockAuthGateway with default behaviors.
func NewMockAuthGateway() *MockAuthGateway {
	return &MockAuthGateway{}
}

func defaultSuccess(method domain.AuthMethod) domain.AuthResult {
	now := time.Now()
	user := domain.NewAuthenticatedUser("u-1", "user@example.com", "Test User", method, now)
	token := domain.NewShortLivedToken("tok", 3600, now)
	return domain.NewAuthSuccess(user, token).WithRefreshToken("refresh-tok")
}

func (m *MockAuthGateway) SignInWithGoogle(ctx context.Context, authorizationCode string) domain.AuthResult {
	if m.SignInWithGoogleFunc != nil {
		return m.SignInWithGoogleFunc(ctx, authorizationCode)
	}
	return defaultSuccess(domain.AuthMethodGoogle)
}

func (m *MockAuthGateway) SignInWithApple(ctx context.Context, authorizationCode, identityToken string) domain.AuthResult {
	if m.SignInWithAppleFunc != nil {
		return m.SignInWithAppleFunc(ctx, authorizationCode, identityToken)
	}
	return defaultSuccess(domain.AuthMethodApple)
}

func (m *MockAuthGateway) RequestEmailOTP(ctx context.Context, email string) *domain.AuthError {
	if m.RequestEmailOTPFunc != nil {
		return m.RequestEmailOTPFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthGateway) VerifyEmailOTP(ctx context.Context, email, otp string) domain.AuthResult {
	if m.VerifyEmailOTPFunc != nil {
		return m.VerifyEmailOTPFunc(ctx, email, otp)
	}
	return defaultSuccess(domain.AuthMethodEmail)
}

func (m *MockAuthGateway) RefreshSession(ctx context.Context, refreshToken string) domain.AuthResult {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, refreshToken)
	}
	return defaultSuccess(domain.AuthMethodGoogle)
}
