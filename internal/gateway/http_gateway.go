// Package gateway implements the network legs of the client sign-in flows
// against the auth service's HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// APIGateway implements domain.AuthGateway over the HTTP surface. Timeouts
// are owned by the caller's context; a deadline hit maps to a retryable
// NetworkError.
type APIGateway struct {
	baseURL string
	client  *http.Client
}

// NewAPIGateway creates a gateway against the given base URL
// (e.g. "https://auth.wakeve.com").
func NewAPIGateway(baseURL string) *APIGateway {
	return &APIGateway{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type loginEnvelope struct {
	Data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int64  `json:"expires_in"`
		SessionID    string `json:"session_id"`
		User         struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			Name       string `json:"name"`
			AuthMethod string `json:"auth_method"`
		} `json:"user"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error             string `json:"error"`
	AttemptsRemaining *int   `json:"attempts_remaining"`
}

// SignInWithGoogle implements domain.AuthGateway.
func (g *APIGateway) SignInWithGoogle(ctx context.Context, authorizationCode string) domain.AuthResult {
	return g.login(ctx, domain.AuthMethodGoogle, authorizationCode)
}

// SignInWithApple implements domain.AuthGateway. The identity token is
// consumed server-side during the code exchange; only the code travels.
func (g *APIGateway) SignInWithApple(ctx context.Context, authorizationCode, identityToken string) domain.AuthResult {
	return g.login(ctx, domain.AuthMethodApple, authorizationCode)
}

// RequestEmailOTP implements domain.AuthGateway.
func (g *APIGateway) RequestEmailOTP(ctx context.Context, email string) *domain.AuthError {
	status, body, err := g.post(ctx, "/api/auth/otp/send", map[string]string{"email": email})
	if err != nil {
		return transportError(ctx, err)
	}
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusBadRequest:
		return domain.NewValidationError("email", serverMessage(body))
	default:
		return domain.NewNetworkError(serverMessage(body))
	}
}

// VerifyEmailOTP implements domain.AuthGateway.
func (g *APIGateway) VerifyEmailOTP(ctx context.Context, email, otp string) domain.AuthResult {
	status, body, err := g.post(ctx, "/api/auth/otp/verify", map[string]string{"email": email, "code": otp})
	if err != nil {
		return domain.NewAuthFailure(transportError(ctx, err))
	}
	if status == http.StatusOK {
		return successResult(body, domain.AuthMethodEmail)
	}

	var e errorEnvelope
	_ = json.Unmarshal(body, &e)
	switch {
	case status == http.StatusTooManyRequests:
		return domain.NewAuthFailure(domain.NewInvalidOTPError(0))
	case e.AttemptsRemaining != nil:
		return domain.NewAuthFailure(domain.NewInvalidOTPError(*e.AttemptsRemaining))
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(e.Error), "expired"):
		return domain.NewAuthFailure(domain.NewOTPExpiredError())
	case status == http.StatusBadRequest:
		// A 400 without attempt accounting is the server rejecting the
		// request shape, not an expired code.
		return domain.NewAuthFailure(domain.NewValidationError("otp", serverMessage(body)))
	default:
		return domain.NewAuthFailure(domain.NewNetworkError(e.Error))
	}
}

// RefreshSession implements domain.AuthGateway.
func (g *APIGateway) RefreshSession(ctx context.Context, refreshToken string) domain.AuthResult {
	status, body, err := g.post(ctx, "/api/auth/refresh", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return domain.NewAuthFailure(transportError(ctx, err))
	}
	switch {
	case status == http.StatusOK:
		return successResult(body, "")
	case status == http.StatusUnauthorized:
		return domain.NewAuthFailure(domain.NewInvalidCredentialsError(serverMessage(body)))
	default:
		return domain.NewAuthFailure(domain.NewNetworkError(serverMessage(body)))
	}
}

func (g *APIGateway) login(ctx context.Context, provider domain.AuthMethod, code string) domain.AuthResult {
	status, body, err := g.post(ctx, "/api/auth/login", map[string]string{
		"provider":          string(provider),
		"authorizationCode": code,
	})
	if err != nil {
		return domain.NewAuthFailure(transportError(ctx, err))
	}
	switch {
	case status == http.StatusOK:
		return successResult(body, provider)
	case status == http.StatusUnauthorized:
		return domain.NewAuthFailure(domain.NewInvalidCredentialsError(serverMessage(body)))
	default:
		return domain.NewAuthFailure(domain.NewOAuthError(provider, serverMessage(body)))
	}
}

func (g *APIGateway) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

// successResult maps a login envelope to an authenticated result. When the
// envelope names the auth method (refresh responses do), it wins over the
// caller's hint.
func successResult(body []byte, method domain.AuthMethod) domain.AuthResult {
	var env loginEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Data.AccessToken == "" {
		return domain.NewAuthFailure(domain.NewNetworkError("malformed server response"))
	}

	if env.Data.User.AuthMethod != "" {
		method = domain.AuthMethod(env.Data.User.AuthMethod)
	}
	now := time.Now()
	user := domain.NewAuthenticatedUser(env.Data.User.ID, env.Data.User.Email, env.Data.User.Name, method, now)
	token := domain.NewShortLivedToken(env.Data.AccessToken, env.Data.ExpiresIn, now)
	return domain.NewAuthSuccess(user, token).WithRefreshToken(env.Data.RefreshToken)
}

func transportError(ctx context.Context, err error) *domain.AuthError {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return domain.NewNetworkError("request timed out")
	}
	return domain.NewNetworkError(err.Error())
}

func serverMessage(body []byte) string {
	var e errorEnvelope
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return "unexpected server response"
}

var _ domain.AuthGateway = (*APIGateway)(nil)
