package mocks

import (
	"context"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockSessionManager implements domain.SessionManager for testing.
type MockSessionManager struct {
	GetUserSessionsFunc    func(ctx context.Context, userID string) []domain.Session
	GetSessionFunc         func(ctx context.Context, sessionID string) *domain.Session
	RevokeSessionFunc      func(ctx context.Context, sessionID string) error
	UpdateLastAccessedFunc func(ctx context.Context, sessionID string)
	IsTokenBlacklistedFunc func(ctx context.Context, token string) bool
}

// NewMockSessionManager creates a new MockSessionManager with default behaviors.
func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{}
}

func (m *MockSessionManager) GetUserSessions(ctx context.Context, userID string) []domain.Session {
	if m.GetUserSessionsFunc != nil {
		return m.GetUserSessionsFunc(ctx, userID)
	}
	return nil
}

func (m *MockSessionManager) GetSession(ctx context.Context, sessionID string) *domain.Session {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSessionManager) RevokeSession(ctx context.Context, sessionID string) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(ctx context.Context, sessionID string) {
	if m.UpdateLastAccessedFunc != nil {
		m.UpdateLastAccessedFunc(ctx, sessionID)
	}
}

func (m *MockSessionManager) IsTokenBlacklisted(ctx context.Context, token string) bool {
	if m.IsTokenBlacklistedFunc != nil {
		return m.IsTokenBlacklistedFunc(ctx, token)
	}
	return false
}
