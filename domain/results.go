package domain

// AuthResultKind tags the variants of AuthResult.
type AuthResultKind int

const (
	AuthResultSuccess AuthResultKind = iota
	AuthResultGuest
	AuthResultError
)

// AuthResult is the outcome of an authentication flow: exactly one of
// success, guest, or error. Results are consumed immediately by the state
// machine and never persisted.
type AuthResult struct {
	kind         AuthResultKind
	user         User
	token        AuthToken
	refreshToken string
	err          *AuthError
}

// NewAuthSuccess creates a successful authenticated result.
func NewAuthSuccess(user User, token AuthToken) AuthResult {
	return AuthResult{kind: AuthResultSuccess, user: user, token: token}
}

// WithRefreshToken attaches the long-lived refresh credential issued
// alongside the access token. Only meaningful for success results.
func (r AuthResult) WithRefreshToken(refreshToken string) AuthResult {
	r.refreshToken = refreshToken
	return r
}

// NewAuthGuest creates a guest-session result.
func NewAuthGuest(user User) AuthResult {
	return AuthResult{kind: AuthResultGuest, user: user}
}

// NewAuthFailure creates a failed result carrying the typed error.
func NewAuthFailure(err *AuthError) AuthResult {
	return AuthResult{kind: AuthResultError, err: err}
}

func (r AuthResult) Kind() AuthResultKind { return r.kind }
func (r AuthResult) IsSuccess() bool      { return r.kind == AuthResultSuccess }
func (r AuthResult) IsGuest() bool        { return r.kind == AuthResultGuest }
func (r AuthResult) IsError() bool        { return r.kind == AuthResultError }

// User returns the authenticated or guest user. Only meaningful for
// success and guest results.
func (r AuthResult) User() User { return r.user }

// Token returns the issued token. Only meaningful for success results.
func (r AuthResult) Token() AuthToken { return r.token }

// RefreshToken returns the refresh credential, or "" when the server did
// not issue one.
func (r AuthResult) RefreshToken() string { return r.refreshToken }

// Err returns the failure, or nil for success and guest results.
func (r AuthResult) Err() *AuthError { return r.err }
