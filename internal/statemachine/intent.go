package statemachine

import "github.com/guyghost/wakeve-auth/domain"

// Intent is a user-driven request to the auth state machine. Intents are
// processed one at a time, in arrival order, against the single current
// state; no two intents are ever in flight against the same state snapshot.
type Intent interface {
	intent()
}

// SignInGoogle starts a Google OAuth sign-in with an authorization code.
type SignInGoogle struct {
	Code string
}

// SignInApple starts an Apple sign-in with an authorization code and the
// optional identity token Apple returned alongside it.
type SignInApple struct {
	Code          string
	IdentityToken string
}

// RequestEmailOTP asks the server to email a one-time code.
type RequestEmailOTP struct {
	Email string
}

// VerifyEmailOTP submits a received one-time code.
type VerifyEmailOTP struct {
	Email string
	OTP   string
}

// ContinueAsGuest starts a local-only guest session.
type ContinueAsGuest struct{}

// ConvertGuestToAuthenticated upgrades the current guest session using the
// given method's credentials. The guest identity is cleared only after the
// authenticated session is established.
type ConvertGuestToAuthenticated struct {
	Method        domain.AuthMethod
	Code          string
	IdentityToken string
	Email         string
	OTP           string
}

// SignOut ends the current session and returns to Unauthenticated.
type SignOut struct{}

// RefreshToken replaces the held session token in place. Only meaningful
// while Authenticated.
type RefreshToken struct{}

func (SignInGoogle) intent()                {}
func (SignInApple) intent()                 {}
func (RequestEmailOTP) intent()             {}
func (VerifyEmailOTP) intent()              {}
func (ContinueAsGuest) intent()             {}
func (ConvertGuestToAuthenticated) intent() {}
func (SignOut) intent()                     {}
func (RefreshToken) intent()                {}
