package domain

import (
	"context"
	"time"
)

// TokenStorage keys. Platform adapters persist these under secure storage
// (Keystore, Keychain, or an encrypted file on desktop hosts).
const (
	StorageKeyAccessToken  = "access_token"
	StorageKeyRefreshToken = "refresh_token"
	StorageKeyUserID       = "user_id"
	StorageKeyAuthMethod   = "auth_method"
	StorageKeyTokenExpiry  = "token_expiry"
	StorageKeyGuestID      = "guest_id"
	StorageKeyGuestCreated = "guest_created_at"
)

// TokenStorage defines secure key/value persistence. Each host platform
// supplies its own adapter; the logic above it is shared.
type TokenStorage interface {
	StoreString(key, value string) error
	GetString(key string) (string, bool, error)
	Remove(key string) error
	Contains(key string) (bool, error)
	ClearAll() error
}

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// SessionRepository defines session data access operations. Revoke flips a
// flag; rows are only removed by EraseForUser (explicit data-erasure request).
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	FindByUserID(ctx context.Context, userID string) ([]Session, error)
	FindByAccessToken(ctx context.Context, token string) (*Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, sessionID string) error
	UpdateTokens(ctx context.Context, sessionID, accessToken, refreshToken string) error
	UpdateLastAccessed(ctx context.Context, sessionID string) error
	EraseForUser(ctx context.Context, userID string) error
}

// TokenService defines JWT issuance and verification. Verification never
// returns an error: every failure mode (malformed input, bad signature,
// wrong issuer or audience, expiry) degrades uniformly to nil so callers
// cannot be used as a validation oracle.
type TokenService interface {
	GenerateToken(user User) (string, error)
	GenerateRefreshToken(user User) (string, error)
	VerifyToken(token string) *TokenClaims
	UserFromToken(ctx context.Context, token string) *User
}

// OTPService defines email one-time-password operations. Verify reports the
// number of attempts remaining alongside sentinel errors for expiry and
// exhaustion.
type OTPService interface {
	Generate(ctx context.Context, email string) (*OTPChallenge, error)
	Verify(ctx context.Context, email, code string) (ok bool, attemptsRemaining int, err error)
	CanResend(ctx context.Context, email string) (bool, int64, error)
}

// NotificationService defines outbound notification delivery.
type NotificationService interface {
	SendEmail(to, subject, body string) error
}

// SessionManager defines session lifecycle operations above the repository.
// Read paths fail open to empty defaults on storage errors; RevokeSession
// surfaces failures so callers can retry.
type SessionManager interface {
	GetUserSessions(ctx context.Context, userID string) []Session
	GetSession(ctx context.Context, sessionID string) *Session
	RevokeSession(ctx context.Context, sessionID string) error
	UpdateLastAccessed(ctx context.Context, sessionID string)
	IsTokenBlacklisted(ctx context.Context, token string) bool
}

// GuestService defines local-only guest session operations. Guest sessions
// never touch the network and never appear in the server session store.
type GuestService interface {
	CreateGuestSession() AuthResult
	RestoreGuestSession() *AuthResult
	HasGuestSession() bool
	CurrentGuestUser() *User
	ConvertToAuthenticated(newUser User) bool
	EndGuestSession() bool
}

// OAuthProfile is the identity a provider reports after a successful
// authorization-code exchange.
type OAuthProfile struct {
	ProviderUserID string
	Email          string
	Name           string
	IDToken        string
}

// OAuthExchanger exchanges an authorization code with one OAuth provider.
type OAuthExchanger interface {
	Provider() AuthMethod
	Exchange(ctx context.Context, code string) (*OAuthProfile, error)
}

// LoginResult is the server-side outcome of a successful login or refresh.
type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// AuthService defines the server-side authentication business logic behind
// POST /api/auth/login.
type AuthService interface {
	LoginWithOAuth(ctx context.Context, provider AuthMethod, authorizationCode string) (*LoginResult, error)
	LoginWithEmailOTP(ctx context.Context, email, code string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthGateway performs the network legs of client sign-in flows. These are
// the only operations the state machine is allowed to suspend on; each call
// honors its context deadline and maps timeouts to a retryable NetworkError.
type AuthGateway interface {
	SignInWithGoogle(ctx context.Context, authorizationCode string) AuthResult
	SignInWithApple(ctx context.Context, authorizationCode, identityToken string) AuthResult
	RequestEmailOTP(ctx context.Context, email string) *AuthError
	VerifyEmailOTP(ctx context.Context, email, otp string) AuthResult
	RefreshSession(ctx context.Context, refreshToken string) AuthResult
}

// MetricsCollector records counters and timers for authentication flows.
type MetricsCollector interface {
	RecordLogin(provider AuthMethod, success bool)
	RecordOAuthExchange(provider AuthMethod, success bool)
	RecordRefresh(success bool)
	RecordRevocation()
	RecordBlacklistHit()
	RecordBlacklistMiss()
	RecordBlacklistEviction()
	ObserveLoginLatency(d time.Duration)
}
