package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/cache"
)

// SessionManagerImpl implements domain.SessionManager on top of the session
// repository with a bounded TTL cache in front of revocation lookups. Read
// paths fail open: a storage error yields an empty result rather than an
// error, so a flaky database never locks every caller out.
type SessionManagerImpl struct {
	sessions  domain.SessionRepository
	blacklist *cache.BlacklistCache
	metrics   domain.MetricsCollector
}

// NewSessionManager creates a session manager. The metrics collector may be
// nil when the caller does not report metrics.
func NewSessionManager(sessions domain.SessionRepository, blacklist *cache.BlacklistCache, metrics domain.MetricsCollector) domain.SessionManager {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SessionManagerImpl{
		sessions:  sessions,
		blacklist: blacklist,
		metrics:   metrics,
	}
}

// GetUserSessions returns all sessions for a user, active and revoked.
func (m *SessionManagerImpl) GetUserSessions(ctx context.Context, userID string) []domain.Session {
	sessions, err := m.sessions.FindByUserID(ctx, userID)
	if err != nil {
		log.Printf("session manager: listing sessions for %s: %v", userID, err)
		return nil
	}
	return sessions
}

// GetSession returns one session by id, or nil when it does not exist or
// the lookup fails.
func (m *SessionManagerImpl) GetSession(ctx context.Context, sessionID string) *domain.Session {
	session, err := m.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil
	}
	return session
}

// RevokeSession marks a session revoked and records both of its tokens as
// blacklisted so subsequent verifications reject them without a database
// round trip. The refresh token is a valid JWT under the same secret, so it
// must be cut off the same way the access token is. Unlike the read paths,
// failures here are surfaced.
func (m *SessionManagerImpl) RevokeSession(ctx context.Context, sessionID string) error {
	session, err := m.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}

	m.blacklist.Put(session.AccessToken, true)
	if session.RefreshToken != "" {
		m.blacklist.Put(session.RefreshToken, true)
	}
	m.metrics.RecordRevocation()
	return nil
}

// UpdateLastAccessed best-effort touches a session's last-accessed time.
func (m *SessionManagerImpl) UpdateLastAccessed(ctx context.Context, sessionID string) {
	if err := m.sessions.UpdateLastAccessed(ctx, sessionID); err != nil {
		log.Printf("session manager: touching session %s: %v", sessionID, err)
	}
}

// IsTokenBlacklisted reports whether a token belongs to a revoked session.
// The token may be either leg of a session's pair; the read-through checks
// the access column first and falls back to the refresh column. Both
// positive and negative answers are cached so repeated checks of the same
// token stay cheap.
func (m *SessionManagerImpl) IsTokenBlacklisted(ctx context.Context, token string) bool {
	if blacklisted, found := m.blacklist.Get(token); found {
		m.metrics.RecordBlacklistHit()
		return blacklisted
	}
	m.metrics.RecordBlacklistMiss()

	session, err := m.sessions.FindByAccessToken(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		session, err = m.sessions.FindByRefreshToken(ctx, token)
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		m.blacklist.Put(token, false)
		return false
	}
	if err != nil {
		// Fail open. JWT expiry still bounds the exposure window.
		return false
	}

	blacklisted := session != nil && session.Revoked
	m.blacklist.Put(token, blacklisted)
	return blacklisted
}

// noopMetrics discards every observation.
type noopMetrics struct{}

func (noopMetrics) RecordLogin(domain.AuthMethod, bool)         {}
func (noopMetrics) RecordOAuthExchange(domain.AuthMethod, bool) {}
func (noopMetrics) RecordRefresh(bool)                          {}
func (noopMetrics) RecordRevocation()                           {}
func (noopMetrics) RecordBlacklistHit()                         {}
func (noopMetrics) RecordBlacklistMiss()                        {}
func (noopMetrics) RecordBlacklistEviction()                    {}
func (noopMetrics) ObserveLoginLatency(time.Duration)           {}
