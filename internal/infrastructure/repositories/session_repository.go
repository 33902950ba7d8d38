package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/guyghost/wakeve-auth/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository using GORM.
// Sessions are revoked by flag so the audit trail survives logout; rows are
// physically removed only by EraseForUser.
type SessionRepositoryImpl struct {
	db *gorm.DB
}

// DBSession represents the database model for Session (with GORM tags)
type DBSession struct {
	ID             string `gorm:"primaryKey;size:255"`
	UserID         string `gorm:"index;size:255"`
	AccessToken    string `gorm:"index;size:1024"`
	RefreshToken   string `gorm:"index;size:1024"`
	CreatedAt      time.Time
	LastAccessedAt time.Time `gorm:"index"`
	Revoked        bool      `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBSession) TableName() string {
	return "sessions"
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domain.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(r.domainToDB(session)).Error
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSession), nil
}

// FindByUserID implements domain.SessionRepository. Revoked sessions are
// included; callers filter when they only want active ones.
func (r *SessionRepositoryImpl) FindByUserID(ctx context.Context, userID string) ([]domain.Session, error) {
	var dbSessions []DBSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dbSessions).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, len(dbSessions))
	for i := range dbSessions {
		sessions[i] = *r.dbToDomain(&dbSessions[i])
	}
	return sessions, nil
}

// FindByAccessToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByAccessToken(ctx context.Context, token string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSession), nil
}

// FindByRefreshToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	var dbSession DBSession
	err := r.db.WithContext(ctx).Where("refresh_token = ?", token).First(&dbSession).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbSession), nil
}

// Revoke implements domain.SessionRepository
func (r *SessionRepositoryImpl) Revoke(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Model(&DBSession{}).
		Where("id = ?", sessionID).
		Update("revoked", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// UpdateTokens implements domain.SessionRepository
func (r *SessionRepositoryImpl) UpdateTokens(ctx context.Context, sessionID, accessToken, refreshToken string) error {
	result := r.db.WithContext(ctx).
		Model(&DBSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// UpdateLastAccessed implements domain.SessionRepository
func (r *SessionRepositoryImpl) UpdateLastAccessed(ctx context.Context, sessionID string) error {
	result := r.db.WithContext(ctx).
		Model(&DBSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// EraseForUser implements domain.SessionRepository. This is the only path
// that physically deletes session rows.
func (r *SessionRepositoryImpl) EraseForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&DBSession{}).Error
}

// domainToDB converts domain session to database session
func (r *SessionRepositoryImpl) domainToDB(session *domain.Session) *DBSession {
	return &DBSession{
		ID:             session.ID,
		UserID:         session.UserID,
		AccessToken:    session.AccessToken,
		RefreshToken:   session.RefreshToken,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Revoked:        session.Revoked,
	}
}

// dbToDomain converts database session to domain session
func (r *SessionRepositoryImpl) dbToDomain(dbSession *DBSession) *domain.Session {
	return &domain.Session{
		ID:             dbSession.ID,
		UserID:         dbSession.UserID,
		AccessToken:    dbSession.AccessToken,
		RefreshToken:   dbSession.RefreshToken,
		CreatedAt:      dbSession.CreatedAt,
		LastAccessedAt: dbSession.LastAccessedAt,
		Revoked:        dbSession.Revoked,
	}
}
