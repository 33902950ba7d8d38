package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/validators"
)

// AccessTokenTTLSeconds is the advertised lifetime of issued access tokens.
const AccessTokenTTLSeconds = 15 * 60

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	exchangers  map[domain.AuthMethod]domain.OAuthExchanger
	metrics     domain.MetricsCollector
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	exchangers []domain.OAuthExchanger,
	metrics domain.MetricsCollector,
) domain.AuthService {
	byProvider := make(map[domain.AuthMethod]domain.OAuthExchanger, len(exchangers))
	for _, ex := range exchangers {
		byProvider[ex.Provider()] = ex
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		exchangers:  byProvider,
		metrics:     metrics,
	}
}

// LoginWithOAuth implements domain.AuthService. The authorization code is
// exchanged with the named provider, the reported identity is linked to a
// user record and a fresh session is issued.
func (s *AuthServiceImpl) LoginWithOAuth(ctx context.Context, provider domain.AuthMethod, authorizationCode string) (*domain.LoginResult, error) {
	start := time.Now()

	exchanger, ok := s.exchangers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported provider %s", domain.ErrInvalidCredentials, provider)
	}

	profile, err := exchanger.Exchange(ctx, authorizationCode)
	if err != nil {
		s.metrics.RecordOAuthExchange(provider, false)
		s.metrics.RecordLogin(provider, false)
		return nil, fmt.Errorf("oauth exchange with %s: %w", provider, err)
	}
	s.metrics.RecordOAuthExchange(provider, true)

	if err := validateProfile(provider, profile, time.Now()); err != nil {
		s.metrics.RecordLogin(provider, false)
		return nil, err
	}

	var user *domain.User
	if profile.Email == "" {
		// Apple withholds the email on every sign-in after the first; the
		// stable provider user id is the lookup key then.
		user, err = s.findOrCreateUserByID(ctx, profile.ProviderUserID, profile.Name, provider)
	} else {
		user, err = s.findOrCreateUser(ctx, profile.Email, profile.Name, provider)
	}
	if err != nil {
		s.metrics.RecordLogin(provider, false)
		return nil, err
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		s.metrics.RecordLogin(provider, false)
		return nil, err
	}

	s.metrics.RecordLogin(provider, true)
	s.metrics.ObserveLoginLatency(time.Since(start))
	return result, nil
}

// LoginWithEmailOTP implements domain.AuthService. The code is checked
// against the pending challenge; expiry and exhaustion surface as their
// sentinel errors so handlers can answer precisely.
func (s *AuthServiceImpl) LoginWithEmailOTP(ctx context.Context, email, code string) (*domain.LoginResult, error) {
	start := time.Now()

	ok, remaining, err := s.otpSvc.Verify(ctx, email, code)
	if err != nil {
		s.metrics.RecordLogin(domain.AuthMethodEmail, false)
		if errors.Is(err, domain.ErrOTPInvalid) {
			return nil, &domain.OTPAttemptError{Remaining: remaining}
		}
		return nil, err
	}
	if !ok {
		s.metrics.RecordLogin(domain.AuthMethodEmail, false)
		return nil, &domain.OTPAttemptError{Remaining: remaining}
	}

	name := displayNameFromEmail(email)
	user, err := s.findOrCreateUser(ctx, email, name, domain.AuthMethodEmail)
	if err != nil {
		s.metrics.RecordLogin(domain.AuthMethodEmail, false)
		return nil, err
	}

	result, err := s.openSession(ctx, user)
	if err != nil {
		s.metrics.RecordLogin(domain.AuthMethodEmail, false)
		return nil, err
	}

	s.metrics.RecordLogin(domain.AuthMethodEmail, true)
	s.metrics.ObserveLoginLatency(time.Since(start))
	return result, nil
}

// Refresh implements domain.AuthService. Revocation wins over a valid
// signature: a cryptographically sound refresh token belonging to a revoked
// session is refused.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.LoginResult, error) {
	if vErr := validators.ValidateTokenRefresh(refreshToken); vErr != nil {
		s.metrics.RecordRefresh(false)
		return nil, fmt.Errorf("%w: %s", domain.ErrTokenInvalid, vErr.Message)
	}

	claims := s.tokenSvc.VerifyToken(refreshToken)
	if claims == nil {
		s.metrics.RecordRefresh(false)
		return nil, domain.ErrTokenInvalid
	}

	session, err := s.sessionForRefreshToken(ctx, claims.Subject, refreshToken)
	if err != nil {
		s.metrics.RecordRefresh(false)
		return nil, err
	}
	if session.Revoked {
		s.metrics.RecordRefresh(false)
		return nil, domain.ErrSessionRevoked
	}

	user, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		s.metrics.RecordRefresh(false)
		return nil, domain.ErrUserNotFound
	}

	accessToken, err := s.tokenSvc.GenerateToken(*user)
	if err != nil {
		s.metrics.RecordRefresh(false)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefreshToken, err := s.tokenSvc.GenerateRefreshToken(*user)
	if err != nil {
		s.metrics.RecordRefresh(false)
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Rotate both tokens on the stored session.
	if err := s.sessionRepo.UpdateTokens(ctx, session.ID, accessToken, newRefreshToken); err != nil {
		s.metrics.RecordRefresh(false)
		return nil, fmt.Errorf("failed to rotate session tokens: %w", err)
	}

	s.metrics.RecordRefresh(true)
	return &domain.LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		SessionID:    session.ID,
		ExpiresIn:    AccessTokenTTLSeconds,
	}, nil
}

// Logout implements domain.AuthService by revoking the session. The row is
// kept for the audit trail.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Revoke(ctx, sessionID)
}

// validateProfile runs the provider payload through the pure validators
// before any user record is touched.
func validateProfile(provider domain.AuthMethod, profile *domain.OAuthProfile, now time.Time) error {
	var res domain.AuthResult
	switch provider {
	case domain.AuthMethodApple:
		res = validators.ValidateAppleSignIn(profile.IDToken, profile.ProviderUserID, profile.Email, profile.Name, now)
	default:
		res = validators.ValidateGoogleSignIn(profile.IDToken, profile.ProviderUserID, profile.Email, profile.Name, now)
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, res.Err().Error())
	}
	return nil
}

// findOrCreateUser links a verified identity to a user record. A returning
// user gets a last-login bump; a first-time identity gets a fresh record.
func (s *AuthServiceImpl) findOrCreateUser(ctx context.Context, email, name string, method domain.AuthMethod) (*domain.User, error) {
	now := time.Now()

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		updated := existing.WithLastLogin(now)
		if err := s.userRepo.Update(ctx, &updated); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &updated, nil
	}

	user := domain.NewAuthenticatedUser(uuid.NewString(), email, name, method, now)
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// findOrCreateUserByID links an email-less provider identity to a user
// record keyed by the provider's stable user id.
func (s *AuthServiceImpl) findOrCreateUserByID(ctx context.Context, id, name string, method domain.AuthMethod) (*domain.User, error) {
	now := time.Now()

	existing, err := s.userRepo.FindByID(ctx, id)
	if err == nil && existing != nil {
		updated := existing.WithLastLogin(now)
		if err := s.userRepo.Update(ctx, &updated); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &updated, nil
	}

	user := domain.NewAuthenticatedUser(id, "", name, method, now)
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// openSession issues an access/refresh token pair and records the session.
func (s *AuthServiceImpl) openSession(ctx context.Context, user *domain.User) (*domain.LoginResult, error) {
	accessToken, err := s.tokenSvc.GenerateToken(*user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.tokenSvc.GenerateRefreshToken(*user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	session := &domain.Session{
		ID:             "sess_" + uuid.NewString(),
		UserID:         user.ID,
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    AccessTokenTTLSeconds,
	}, nil
}

// sessionForRefreshToken locates the session that currently holds the given
// refresh token among the subject's sessions.
func (s *AuthServiceImpl) sessionForRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.Session, error) {
	sessions, err := s.sessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	for i := range sessions {
		if sessions[i].RefreshToken == refreshToken {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func displayNameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
