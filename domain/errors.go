package domain

import (
	"errors"
	"fmt"
)

// Repository and service sentinel errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// OTP errors
var (
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// OTPAttemptError is an OTP mismatch carrying the remaining attempt budget.
// It unwraps to ErrOTPInvalid so existing errors.Is checks keep working.
type OTPAttemptError struct {
	Remaining int
}

func (e *OTPAttemptError) Error() string {
	return fmt.Sprintf("invalid otp code, %d attempts remaining", e.Remaining)
}

func (e *OTPAttemptError) Unwrap() error { return ErrOTPInvalid }

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRevoked  = errors.New("session has been revoked")
)

// AuthErrorCode tags the variants of AuthError. New handling code should
// switch over the code so missed variants are easy to spot in review.
type AuthErrorCode string

const (
	ErrCodeNetwork            AuthErrorCode = "NETWORK_ERROR"
	ErrCodeInvalidCredentials AuthErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidOTP         AuthErrorCode = "INVALID_OTP"
	ErrCodeOTPExpired         AuthErrorCode = "OTP_EXPIRED"
	ErrCodeOAuth              AuthErrorCode = "OAUTH_ERROR"
	ErrCodeOAuthCancelled     AuthErrorCode = "OAUTH_CANCELLED"
	ErrCodeValidation         AuthErrorCode = "VALIDATION_ERROR"
)

// AuthError is the typed failure result of an authentication flow. Variant
// data lives in the optional fields; which fields are meaningful depends on
// the code. Validators and the state machine return AuthError values instead
// of panicking; every failure path is an expected outcome.
type AuthError struct {
	Code              AuthErrorCode
	Provider          AuthMethod // OAuth variants
	Field             string     // Validation variant
	Message           string
	AttemptsRemaining int // InvalidOTP variant
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return string(e.Code)
}

// Retryable reports whether retrying the same flow with the same method can
// succeed. OTP mismatches stop being retryable once attempts are exhausted.
func (e *AuthError) Retryable() bool {
	switch e.Code {
	case ErrCodeNetwork, ErrCodeValidation:
		return true
	case ErrCodeInvalidOTP:
		return e.AttemptsRemaining > 0
	default:
		return false
	}
}

// RequiresMethodChange reports whether the user must pick a different
// sign-in method. OAuth failures and intentional cancellation both require
// switching; everything else can be fixed within the current method.
func (e *AuthError) RequiresMethodChange() bool {
	switch e.Code {
	case ErrCodeOAuth, ErrCodeOAuthCancelled:
		return true
	default:
		return false
	}
}

// UserMessage returns the text shown to the user for this failure.
func (e *AuthError) UserMessage() string {
	switch e.Code {
	case ErrCodeNetwork:
		return "Connection problem. Please check your network and try again."
	case ErrCodeInvalidCredentials:
		return "Invalid credentials. Please try again."
	case ErrCodeInvalidOTP:
		if e.AttemptsRemaining > 0 {
			return fmt.Sprintf("Incorrect code. %d attempts remaining.", e.AttemptsRemaining)
		}
		return "Incorrect code. No attempts remaining, please request a new code."
	case ErrCodeOTPExpired:
		return "This code has expired. Please request a new one."
	case ErrCodeOAuth:
		return fmt.Sprintf("Sign-in with %s failed. Please try another method.", e.Provider)
	case ErrCodeOAuthCancelled:
		return "Sign-in was cancelled."
	case ErrCodeValidation:
		return e.Message
	default:
		return "Something went wrong. Please try again."
	}
}

// NewNetworkError creates a retryable network failure.
func NewNetworkError(message string) *AuthError {
	return &AuthError{Code: ErrCodeNetwork, Message: message}
}

// NewInvalidCredentialsError creates a non-retryable credential failure.
func NewInvalidCredentialsError(message string) *AuthError {
	return &AuthError{Code: ErrCodeInvalidCredentials, Message: message}
}

// NewInvalidOTPError creates an OTP mismatch failure carrying the number of
// attempts the user has left.
func NewInvalidOTPError(attemptsRemaining int) *AuthError {
	return &AuthError{Code: ErrCodeInvalidOTP, AttemptsRemaining: attemptsRemaining}
}

// NewOTPExpiredError creates an expired-OTP failure.
func NewOTPExpiredError() *AuthError {
	return &AuthError{Code: ErrCodeOTPExpired}
}

// NewOAuthError creates a provider failure that requires switching methods.
func NewOAuthError(provider AuthMethod, message string) *AuthError {
	return &AuthError{Code: ErrCodeOAuth, Provider: provider, Message: message}
}

// NewOAuthCancelledError records that the user backed out of the provider flow.
func NewOAuthCancelledError(provider AuthMethod) *AuthError {
	return &AuthError{Code: ErrCodeOAuthCancelled, Provider: provider}
}

// NewValidationError creates a retryable input-validation failure.
func NewValidationError(field, message string) *AuthError {
	return &AuthError{Code: ErrCodeValidation, Field: field, Message: message}
}
