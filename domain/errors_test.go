package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestAuthErrorRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       *AuthError
		retryable bool
	}{
		{name: "network errors retry", err: NewNetworkError("timeout"), retryable: true},
		{name: "validation errors retry", err: NewValidationError("email", "invalid format"), retryable: true},
		{name: "otp with attempts left retries", err: NewInvalidOTPError(2), retryable: true},
		{name: "otp with no attempts left does not retry", err: NewInvalidOTPError(0), retryable: false},
		{name: "expired otp does not retry", err: NewOTPExpiredError(), retryable: false},
		{name: "invalid credentials do not retry", err: NewInvalidCredentialsError("bad"), retryable: false},
		{name: "oauth error does not retry", err: NewOAuthError(AuthMethodGoogle, "exchange failed"), retryable: false},
		{name: "oauth cancel does not retry", err: NewOAuthCancelledError(AuthMethodApple), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Retryable(); got != tt.retryable {
				t.Errorf("Retryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestAuthErrorRequiresMethodChange(t *testing.T) {
	tests := []struct {
		name   string
		err    *AuthError
		change bool
	}{
		{name: "oauth error", err: NewOAuthError(AuthMethodGoogle, "bad code"), change: true},
		{name: "oauth cancelled", err: NewOAuthCancelledError(AuthMethodGoogle), change: true},
		{name: "network error", err: NewNetworkError("timeout"), change: false},
		{name: "invalid otp", err: NewInvalidOTPError(1), change: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.RequiresMethodChange(); got != tt.change {
				t.Errorf("RequiresMethodChange() = %v, want %v", got, tt.change)
			}
		})
	}
}

func TestAuthErrorUserMessage(t *testing.T) {
	if msg := NewInvalidOTPError(2).UserMessage(); !strings.Contains(msg, "2 attempts") {
		t.Errorf("expected attempts count in message, got %q", msg)
	}
	if msg := NewInvalidOTPError(0).UserMessage(); !strings.Contains(msg, "request a new code") {
		t.Errorf("expected exhaustion hint, got %q", msg)
	}
	if msg := NewOAuthError(AuthMethodApple, "x").UserMessage(); !strings.Contains(msg, "APPLE") {
		t.Errorf("expected provider in message, got %q", msg)
	}
	if NewValidationError("email", "enter a valid email").UserMessage() != "enter a valid email" {
		t.Error("validation errors should surface their own message")
	}
}

func TestAuthErrorImplementsError(t *testing.T) {
	var err error = NewOAuthError(AuthMethodGoogle, "exchange failed")
	if !strings.Contains(err.Error(), "OAUTH_ERROR") {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestOTPAttemptErrorUnwrapsToSentinel(t *testing.T) {
	var err error = &OTPAttemptError{Remaining: 2}
	if !errors.Is(err, ErrOTPInvalid) {
		t.Error("OTPAttemptError must match ErrOTPInvalid")
	}

	var attErr *OTPAttemptError
	if !errors.As(err, &attErr) || attErr.Remaining != 2 {
		t.Errorf("remaining attempts lost: %+v", attErr)
	}
}
