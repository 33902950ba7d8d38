// Package validators turns raw provider responses into AuthResult values.
// Every function is pure: no I/O, deterministic given its inputs, with the
// current time passed in explicitly. Failure paths return typed results,
// never errors.
package validators

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

const (
	// DefaultMaxOTPAttempts is the attempt budget for one OTP challenge.
	DefaultMaxOTPAttempts = 3

	// appleUserIDPrefix is the documented prefix of Apple user identifiers.
	// Apple may withhold email on repeat sign-ins, so the identifier format
	// is the only stable thing to check.
	appleUserIDPrefix = "001"

	oauthTokenSeconds = 3600
	sessionTokenDays  = 30
)

// ValidateGoogleSignIn validates a raw Google sign-in response.
func ValidateGoogleSignIn(idToken, userID, email, name string, now time.Time) domain.AuthResult {
	if strings.TrimSpace(idToken) == "" {
		return domain.NewAuthFailure(domain.NewOAuthError(domain.AuthMethodGoogle, "missing ID token"))
	}
	if strings.TrimSpace(userID) == "" {
		return domain.NewAuthFailure(domain.NewOAuthError(domain.AuthMethodGoogle, "missing user ID"))
	}
	if !isValidEmail(email) {
		return domain.NewAuthFailure(domain.NewValidationError("email", "invalid email format"))
	}

	user := domain.NewAuthenticatedUser(userID, email, name, domain.AuthMethodGoogle, now)
	token := domain.NewShortLivedToken(idToken, oauthTokenSeconds, now)
	return domain.NewAuthSuccess(user, token)
}

// ValidateAppleSignIn validates a raw Apple sign-in response. Email and name
// are optional because Apple withholds them on repeat sign-ins; email is
// validated only when present.
func ValidateAppleSignIn(identityToken, userID, email, name string, now time.Time) domain.AuthResult {
	if strings.TrimSpace(identityToken) == "" {
		return domain.NewAuthFailure(domain.NewOAuthError(domain.AuthMethodApple, "missing identity token"))
	}
	if !strings.HasPrefix(userID, appleUserIDPrefix) {
		return domain.NewAuthFailure(domain.NewOAuthError(domain.AuthMethodApple,
			fmt.Sprintf("unexpected user identifier format: %q", userID)))
	}
	if email != "" && !isValidEmail(email) {
		return domain.NewAuthFailure(domain.NewValidationError("email", "invalid email format"))
	}

	user := domain.NewAuthenticatedUser(userID, email, name, domain.AuthMethodApple, now)
	token := domain.NewShortLivedToken(identityToken, oauthTokenSeconds, now)
	return domain.NewAuthSuccess(user, token)
}

// ValidateEmailOTP validates one OTP verification attempt. attemptNumber is
// 1-based; the caller owns attempt tracking across calls. Expiry takes
// precedence over the attempt count.
func ValidateEmailOTP(email, otp, expectedOTP string, otpExpiry time.Time, attemptNumber, maxAttempts int, now time.Time) domain.AuthResult {
	if !isValidEmail(email) {
		return domain.NewAuthFailure(domain.NewValidationError("email", "invalid email format"))
	}
	if strings.TrimSpace(otp) == "" {
		return domain.NewAuthFailure(domain.NewValidationError("otp", "code is required"))
	}
	if now.After(otpExpiry) {
		return domain.NewAuthFailure(domain.NewOTPExpiredError())
	}
	if otp != expectedOTP {
		remaining := maxAttempts - attemptNumber
		if remaining < 0 {
			remaining = 0
		}
		return domain.NewAuthFailure(domain.NewInvalidOTPError(remaining))
	}

	user := domain.NewAuthenticatedUser("email_"+email, email, "", domain.AuthMethodEmail, now)
	token := domain.NewSessionToken(fmt.Sprintf("otp_session_%s_%d", email, now.UnixMilli()), sessionTokenDays, now)
	return domain.NewAuthSuccess(user, token)
}

// ValidateTokenRefresh checks the structural shape of a refresh token:
// non-blank and three dot-separated segments. Cryptographic verification
// belongs to the token service, not this layer.
func ValidateTokenRefresh(refreshToken string) *domain.AuthError {
	if strings.TrimSpace(refreshToken) == "" {
		return domain.NewInvalidCredentialsError("refresh token is empty")
	}
	parts := strings.Split(refreshToken, ".")
	if len(parts) != 3 {
		return domain.NewInvalidCredentialsError("refresh token is not a valid token")
	}
	for _, p := range parts {
		if p == "" {
			return domain.NewInvalidCredentialsError("refresh token is not a valid token")
		}
	}
	return nil
}

// isValidEmail applies RFC 5322 address parsing plus a dot-in-domain check,
// since ParseAddress accepts bare local domains.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
