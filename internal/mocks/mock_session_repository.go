package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
// Default behavior is an in-memory map that honors the revoke-by-flag
// contract; individual methods can be overridden through the Func fields.
type MockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]domain.Session

	CreateFunc             func(ctx context.Context, session *domain.Session) error
	FindByIDFunc           func(ctx context.Context, sessionID string) (*domain.Session, error)
	FindByUserIDFunc       func(ctx context.Context, userID string) ([]domain.Session, error)
	FindByAccessTokenFunc  func(ctx context.Context, token string) (*domain.Session, error)
	FindByRefreshTokenFunc func(ctx context.Context, token string) (*domain.Session, error)
	RevokeFunc             func(ctx context.Context, sessionID string) error
	UpdateTokensFunc       func(ctx context.Context, sessionID, accessToken, refreshToken string) error
	UpdateLastAccessedFunc func(ctx context.Context, sessionID string) error
	EraseForUserFunc       func(ctx context.Context, userID string) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{sessions: make(map[string]domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		session := s
		return &session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) FindByUserID(ctx context.Context, userID string) ([]domain.Session, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSessionRepository) FindByAccessToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByAccessTokenFunc != nil {
		return m.FindByAccessTokenFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.AccessToken == token {
			session := s
			return &session, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) FindByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.FindByRefreshTokenFunc != nil {
		return m.FindByRefreshTokenFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.RefreshToken == token {
			session := s
			return &session, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Revoke(ctx context.Context, sessionID string) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.Revoked = true
	m.sessions[sessionID] = s
	return nil
}

func (m *MockSessionRepository) UpdateTokens(ctx context.Context, sessionID, accessToken, refreshToken string) error {
	if m.UpdateTokensFunc != nil {
		return m.UpdateTokensFunc(ctx, sessionID, accessToken, refreshToken)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.AccessToken = accessToken
	s.RefreshToken = refreshToken
	m.sessions[sessionID] = s
	return nil
}

func (m *MockSessionRepository) UpdateLastAccessed(ctx context.Context, sessionID string) error {
	if m.UpdateLastAccessedFunc != nil {
		return m.UpdateLastAccessedFunc(ctx, sessionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.LastAccessedAt = time.Now()
	m.sessions[sessionID] = s
	return nil
}

func (m *MockSessionRepository) EraseForUser(ctx context.Context, userID string) error {
	if m.EraseForUserFunc != nil {
		return m.EraseForUserFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}
