// Package statemachine coordinates the OAuth, OTP, and guest sign-in flows
// into one current-session state. A single goroutine drains the message
// queue, so intents are processed strictly in arrival order and no handler
// observes a state snapshot another handler is still mutating. Network calls
// run in their own goroutines and post completion messages back onto the
// same queue tagged with an epoch; completions from a superseded epoch are
// discarded rather than pre-empted.
package statemachine

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// DefaultNetworkTimeout bounds every collaborator network call.
const DefaultNetworkTimeout = 30 * time.Second

const onboardingCompleteKey = "onboarding_complete"

type message interface {
	message()
}

type intentMsg struct {
	in Intent
}

type signInComplete struct {
	epoch     uint64
	result    domain.AuthResult
	fromGuest bool
}

type otpRequested struct {
	epoch uint64
	email string
	err   *domain.AuthError
}

type refreshComplete struct {
	epoch  uint64
	result domain.AuthResult
}

func (intentMsg) message()       {}
func (signInComplete) message()  {}
func (otpRequested) message()    {}
func (refreshComplete) message() {}

// Machine is the single authority for the client's authentication state.
type Machine struct {
	gateway domain.AuthGateway
	guests  domain.GuestService
	storage domain.TokenStorage
	timeout time.Duration

	msgs    chan message
	effects chan Effect
	quit    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup

	mu    sync.Mutex
	state State

	// epoch identifies the latest sign-in attempt. SignOut and conflicting
	// sign-in intents bump it; a completion carrying an older epoch is the
	// result of an abandoned attempt and is dropped.
	epoch uint64
}

// NewMachine creates a stopped machine in the Unauthenticated state.
// A non-positive timeout falls back to DefaultNetworkTimeout.
func NewMachine(gateway domain.AuthGateway, guests domain.GuestService, storage domain.TokenStorage, timeout time.Duration) *Machine {
	if timeout <= 0 {
		timeout = DefaultNetworkTimeout
	}
	return &Machine{
		gateway: gateway,
		guests:  guests,
		storage: storage,
		timeout: timeout,
		msgs:    make(chan message, 64),
		effects: make(chan Effect, 64),
		quit:    make(chan struct{}),
		state:   unauthenticated(),
	}
}

// Start begins draining the intent queue. If a guest session survives from a
// previous run it is restored before any intent is processed.
func (m *Machine) Start() {
	if restored := m.guests.RestoreGuestSession(); restored != nil && restored.IsGuest() {
		m.setState(guestMode(restored.User()))
	}

	m.wg.Add(1)
	go m.loop()
}

// Stop shuts the machine down. In-flight network calls are left to finish;
// their results have nowhere to land and are dropped.
func (m *Machine) Stop() {
	m.once.Do(func() { close(m.quit) })
	m.wg.Wait()
}

// Dispatch enqueues an intent. Safe for concurrent use.
func (m *Machine) Dispatch(in Intent) {
	select {
	case m.msgs <- intentMsg{in: in}:
	case <-m.quit:
	}
}

// Effects returns the one-shot side-effect stream. The UI layer must consume it.
func (m *Machine) Effects() <-chan Effect {
	return m.effects
}

// CurrentState returns a snapshot of the current state.
func (m *Machine) CurrentState() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Machine) loop() {
	defer m.wg.Done()
	for {
		select {
		case <-m.quit:
			return
		case msg := <-m.msgs:
			m.handle(msg)
		}
	}
}

func (m *Machine) post(msg message) {
	select {
	case m.msgs <- msg:
	case <-m.quit:
	}
}

func (m *Machine) emit(e Effect) {
	select {
	case m.effects <- e:
	default:
		// Slow or absent consumer; dropping is preferable to wedging the loop.
		log.Printf("statemachine: dropped effect %s", e.Kind)
	}
}

func (m *Machine) handle(msg message) {
	switch msg := msg.(type) {
	case intentMsg:
		m.handleIntent(msg.in)
	case signInComplete:
		m.handleSignInComplete(msg)
	case otpRequested:
		m.handleOTPRequested(msg)
	case refreshComplete:
		m.handleRefreshComplete(msg)
	}
}

func (m *Machine) handleIntent(in Intent) {
	switch in := in.(type) {
	case SignInGoogle:
		code := in.Code
		m.beginSignIn(domain.AuthMethodGoogle, false, func(ctx context.Context) domain.AuthResult {
			return m.gateway.SignInWithGoogle(ctx, code)
		})

	case SignInApple:
		code, identityToken := in.Code, in.IdentityToken
		m.beginSignIn(domain.AuthMethodApple, false, func(ctx context.Context) domain.AuthResult {
			return m.gateway.SignInWithApple(ctx, code, identityToken)
		})

	case RequestEmailOTP:
		email := in.Email
		epoch := m.epoch
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			defer cancel()
			err := m.gateway.RequestEmailOTP(ctx, email)
			if err == nil && ctx.Err() != nil {
				err = domain.NewNetworkError("request timed out")
			}
			m.post(otpRequested{epoch: epoch, email: email, err: err})
		}()

	case VerifyEmailOTP:
		email, otp := in.Email, in.OTP
		m.beginSignIn(domain.AuthMethodEmail, false, func(ctx context.Context) domain.AuthResult {
			return m.gateway.VerifyEmailOTP(ctx, email, otp)
		})

	case ContinueAsGuest:
		// Supersedes any sign-in still in flight.
		m.epoch++
		result := m.guests.CreateGuestSession()
		if result.IsGuest() {
			m.setState(guestMode(result.User()))
			m.emitNavigation()
			return
		}
		m.setState(unauthenticatedWithError(result.Err()))
		m.emit(Effect{Kind: EffectShowError, Message: result.Err().UserMessage()})

	case ConvertGuestToAuthenticated:
		if m.CurrentState().Kind != StateGuest {
			return
		}
		m.beginConversion(in)

	case SignOut:
		m.epoch++
		if m.CurrentState().Kind == StateGuest {
			m.guests.EndGuestSession()
		}
		m.clearStoredSession()
		m.setState(unauthenticated())

	case RefreshToken:
		st := m.CurrentState()
		if st.Kind != StateAuthenticated {
			return
		}
		refreshToken, ok, err := m.storage.GetString(domain.StorageKeyRefreshToken)
		if err != nil || !ok || refreshToken == "" {
			// The access token is not a refresh credential; without a stored
			// refresh token the attempt cannot succeed, so it is not made.
			st.LastRefreshError = domain.NewInvalidCredentialsError("no refresh token held")
			m.setState(st)
			return
		}
		epoch := m.epoch
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
			defer cancel()
			m.post(refreshComplete{epoch: epoch, result: m.gateway.RefreshSession(ctx, refreshToken)})
		}()
	}
}

// beginSignIn starts an asynchronous sign-in attempt. A conflicting attempt
// already in flight is abandoned: its completion arrives carrying the old
// epoch and is discarded.
func (m *Machine) beginSignIn(method domain.AuthMethod, fromGuest bool, call func(ctx context.Context) domain.AuthResult) {
	m.epoch++
	epoch := m.epoch
	m.setState(authenticating(method))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		result := call(ctx)
		if ctx.Err() == context.DeadlineExceeded && !result.IsSuccess() && !result.IsGuest() {
			result = domain.NewAuthFailure(domain.NewNetworkError("request timed out"))
		}
		m.post(signInComplete{epoch: epoch, result: result, fromGuest: fromGuest})
	}()
}

func (m *Machine) beginConversion(in ConvertGuestToAuthenticated) {
	switch in.Method {
	case domain.AuthMethodGoogle:
		code := in.Code
		m.beginSignIn(domain.AuthMethodGoogle, true, func(ctx context.Context) domain.AuthResult {
			return m.gateway.SignInWithGoogle(ctx, code)
		})
	case domain.AuthMethodApple:
		code, identityToken := in.Code, in.IdentityToken
		m.beginSignIn(domain.AuthMethodApple, true, func(ctx context.Context) domain.AuthResult {
			return m.gateway.SignInWithApple(ctx, code, identityToken)
		})
	case domain.AuthMethodEmail:
		email, otp := in.Email, in.OTP
		m.beginSignIn(domain.AuthMethodEmail, true, func(ctx context.Context) domain.AuthResult {
			return m.gateway.VerifyEmailOTP(ctx, email, otp)
		})
	}
}

func (m *Machine) handleSignInComplete(c signInComplete) {
	if c.epoch != m.epoch {
		return // superseded attempt
	}

	switch {
	case c.result.IsSuccess():
		user := c.result.User()
		token := c.result.Token()
		if c.fromGuest && !m.guests.ConvertToAuthenticated(user) {
			// The sign-in stands either way; the leftover guest identity is
			// cleared again on the next sign-out.
			log.Printf("statemachine: guest identity not cleared after conversion for user %s", user.ID)
		}
		m.persistSession(user, token, c.result.RefreshToken())
		m.setState(authenticated(user, token))
		m.emitNavigation()

	case c.result.IsError():
		err := c.result.Err()
		if c.fromGuest {
			// The guest identity was never cleared; fall back to it.
			if guestUser := m.guests.CurrentGuestUser(); guestUser != nil {
				st := guestMode(*guestUser)
				st.LastError = err
				m.setState(st)
				m.emit(Effect{Kind: EffectShowError, Message: err.UserMessage()})
				return
			}
		}
		m.setState(unauthenticatedWithError(err))
		m.emit(Effect{Kind: EffectShowError, Message: err.UserMessage()})
	}
}

func (m *Machine) handleOTPRequested(c otpRequested) {
	if c.epoch != m.epoch {
		return
	}
	if c.err != nil {
		st := m.CurrentState()
		st.LastError = c.err
		m.setState(st)
		m.emit(Effect{Kind: EffectShowError, Message: c.err.UserMessage()})
	}
}

func (m *Machine) handleRefreshComplete(c refreshComplete) {
	if c.epoch != m.epoch {
		return
	}
	st := m.CurrentState()
	if st.Kind != StateAuthenticated {
		return
	}

	if c.result.IsSuccess() {
		token := c.result.Token()
		m.persistSession(*st.User, token, c.result.RefreshToken())
		st.Token = &token
		st.LastRefreshError = nil
		m.setState(st)
		return
	}

	// A failed refresh is recorded but never forces a sign-out; the session
	// degrades gracefully through transient failures.
	st.LastRefreshError = c.result.Err()
	m.setState(st)
}

func (m *Machine) emitNavigation() {
	done, _, err := m.storage.GetString(onboardingCompleteKey)
	if err == nil && done == "true" {
		m.emit(Effect{Kind: EffectNavigateToMain})
		return
	}
	m.emit(Effect{Kind: EffectNavigateToOnboarding})
}

func (m *Machine) persistSession(user domain.User, token domain.AuthToken, refreshToken string) {
	store := func(key, value string) {
		if err := m.storage.StoreString(key, value); err != nil {
			log.Printf("statemachine: failed to persist %s: %v", key, err)
		}
	}
	store(domain.StorageKeyAccessToken, token.Value)
	if refreshToken != "" {
		store(domain.StorageKeyRefreshToken, refreshToken)
	}
	store(domain.StorageKeyUserID, user.ID)
	store(domain.StorageKeyAuthMethod, string(user.AuthMethod))
	store(domain.StorageKeyTokenExpiry, strconv.FormatInt(token.ExpiresAt, 10))
}

func (m *Machine) clearStoredSession() {
	for _, key := range []string{
		domain.StorageKeyAccessToken,
		domain.StorageKeyRefreshToken,
		domain.StorageKeyUserID,
		domain.StorageKeyAuthMethod,
		domain.StorageKeyTokenExpiry,
	} {
		if err := m.storage.Remove(key); err != nil {
			log.Printf("statemachine: failed to clear %s: %v", key, err)
		}
	}
}
