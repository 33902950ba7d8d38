package mocks

import (
	"context"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockOTPService implements domain.OTPService for testing.
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, email string) (*domain.OTPChallenge, error)
	VerifyFunc    func(ctx context.Context, email, code string) (bool, int, error)
	CanResendFunc func(ctx context.Context, email string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors.
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Generate(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, email)
	}
	return &domain.OTPChallenge{Email: email, ExpiresAt: time.Now().Add(5 * time.Minute)}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, email, code string) (bool, int, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code)
	}
	if code == "123456" {
		return true, 0, nil
	}
	return false, 2, domain.ErrOTPInvalid
}

func (m *MockOTPService) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, email)
	}
	return true, 0, nil
}
