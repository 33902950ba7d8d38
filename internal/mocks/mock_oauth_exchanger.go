package mocks

import (
	"context"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockOAuthExchanger implements domain.OAuthExchanger for testing.
type MockOAuthExchanger struct {
	ProviderValue domain.AuthMethod
	ExchangeFunc  func(ctx context.Context, code string) (*domain.OAuthProfile, error)
}

// NewMockOAuthExchanger creates an exchanger for the given provider.
func NewMockOAuthExchanger(provider domain.AuthMethod) *MockOAuthExchanger {
	return &MockOAuthExchanger{ProviderValue: provider}
}

func (m *MockOAuthExchanger) Provider() domain.AuthMethod {
	return m.ProviderValue
}

func (m *MockOAuthExchanger) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	userID := "g-1"
	if m.ProviderValue == domain.AuthMethodApple {
		userID = "001234.abcd"
	}
	return &domain.OAuthProfile{
		ProviderUserID: userID,
		Email:          "user@example.com",
		Name:           "Test User",
		IDToken:        "provider-id-token",
	}, nil
}
