package domain

import "time"

// AuthMethod identifies how a user authenticated.
type AuthMethod string

const (
	AuthMethodGoogle AuthMethod = "GOOGLE"
	AuthMethodApple  AuthMethod = "APPLE"
	AuthMethodEmail  AuthMethod = "EMAIL"
	AuthMethodGuest  AuthMethod = "GUEST"
)

// User represents the current user identity. Values are immutable once
// constructed; "updates" produce a new value.
type User struct {
	ID          string
	Email       string
	Name        string
	AuthMethod  AuthMethod
	IsGuest     bool
	CreatedAt   int64
	LastLoginAt int64
}

// NewAuthenticatedUser creates a non-guest user for the given method.
func NewAuthenticatedUser(id, email, name string, method AuthMethod, now time.Time) User {
	ms := now.UnixMilli()
	return User{
		ID:          id,
		Email:       email,
		Name:        name,
		AuthMethod:  method,
		IsGuest:     false,
		CreatedAt:   ms,
		LastLoginAt: ms,
	}
}

// NewGuestUser creates a local-only guest identity. Guests carry no email
// or name (data minimization).
func NewGuestUser(id string, now time.Time) User {
	ms := now.UnixMilli()
	return User{
		ID:          id,
		AuthMethod:  AuthMethodGuest,
		IsGuest:     true,
		CreatedAt:   ms,
		LastLoginAt: ms,
	}
}

// CanSync reports whether the user's data may be synced to the server.
// Guest data never leaves the device.
func (u User) CanSync() bool {
	return !u.IsGuest
}

// WithLastLogin returns a copy of the user with an updated last-login time.
func (u User) WithLastLogin(now time.Time) User {
	u.LastLoginAt = now.UnixMilli()
	return u
}

// AuthToken is an opaque credential with a validity window.
// Invariant: ExpiresAt > CreatedAt.
type AuthToken struct {
	Value     string
	ExpiresAt int64
	CreatedAt int64
}

// NewShortLivedToken creates a token valid for the given number of seconds,
// as used for OAuth ID tokens.
func NewShortLivedToken(value string, seconds int64, now time.Time) AuthToken {
	ms := now.UnixMilli()
	return AuthToken{Value: value, CreatedAt: ms, ExpiresAt: ms + seconds*1000}
}

// NewSessionToken creates a token valid for the given number of days,
// as used for long-lived session tokens.
func NewSessionToken(value string, days int64, now time.Time) AuthToken {
	ms := now.UnixMilli()
	return AuthToken{Value: value, CreatedAt: ms, ExpiresAt: ms + days*24*60*60*1000}
}

// IsExpired reports whether the token has expired at the given instant.
func (t AuthToken) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= t.ExpiresAt
}

// Session represents a server-recorded authenticated login instance.
// Sessions are revoked by flag, never deleted, so the audit trail survives
// logout. Physical deletion happens only on explicit user-data erasure.
type Session struct {
	ID             string
	UserID         string
	AccessToken    string
	RefreshToken   string
	CreatedAt      time.Time
	LastAccessedAt time.Time
	Revoked        bool
}

// TokenClaims represents the verified claims of a session JWT.
type TokenClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	UserID    string `json:"userId"`
	Provider  string `json:"provider"`
	Issuer    string `json:"iss"`
	Audience  string `json:"aud"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// OTPChallenge represents a pending email OTP challenge.
type OTPChallenge struct {
	Email     string
	ExpiresAt time.Time
	Attempts  int
}
