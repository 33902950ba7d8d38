package statemachine

import "github.com/guyghost/wakeve-auth/domain"

// StateKind tags the shape of the machine's current state.
type StateKind string

const (
	StateUnauthenticated StateKind = "UNAUTHENTICATED"
	StateAuthenticating  StateKind = "AUTHENTICATING"
	StateAuthenticated   StateKind = "AUTHENTICATED"
	StateGuest           StateKind = "GUEST"
)

// State is the machine's single source of truth for "who is the current
// user". Which fields are meaningful depends on Kind: Method during
// Authenticating, User/Token when Authenticated, User for Guest, LastError
// after a failed attempt (machine holds at Unauthenticated).
type State struct {
	Kind      StateKind
	Method    domain.AuthMethod
	User      *domain.User
	Token     *domain.AuthToken
	LastError *domain.AuthError

	// LastRefreshError records a failed token refresh. A failed refresh
	// degrades gracefully instead of ejecting the user, so this never
	// forces a transition out of Authenticated.
	LastRefreshError *domain.AuthError
}

func unauthenticated() State {
	return State{Kind: StateUnauthenticated}
}

func unauthenticatedWithError(err *domain.AuthError) State {
	return State{Kind: StateUnauthenticated, LastError: err}
}

func authenticating(method domain.AuthMethod) State {
	return State{Kind: StateAuthenticating, Method: method}
}

func authenticated(user domain.User, token domain.AuthToken) State {
	return State{Kind: StateAuthenticated, User: &user, Token: &token}
}

func guestMode(user domain.User) State {
	return State{Kind: StateGuest, User: &user}
}
