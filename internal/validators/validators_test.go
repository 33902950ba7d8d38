package validators

import (
	"testing"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestValidateGoogleSignIn(t *testing.T) {
	tests := []struct {
		name     string
		idToken  string
		userID   string
		email    string
		wantCode domain.AuthErrorCode
	}{
		{name: "valid sign in", idToken: "tok", userID: "g-123", email: "user@example.com"},
		{name: "blank id token", idToken: "", userID: "g-123", email: "user@example.com", wantCode: domain.ErrCodeOAuth},
		{name: "whitespace id token", idToken: "   ", userID: "g-123", email: "user@example.com", wantCode: domain.ErrCodeOAuth},
		{name: "blank user id", idToken: "tok", userID: "", email: "user@example.com", wantCode: domain.ErrCodeOAuth},
		{name: "invalid email", idToken: "tok", userID: "g-123", email: "not-an-email", wantCode: domain.ErrCodeValidation},
		{name: "email without tld", idToken: "tok", userID: "g-123", email: "user@localhost", wantCode: domain.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateGoogleSignIn(tt.idToken, tt.userID, tt.email, "Ada", testNow)

			if tt.wantCode != "" {
				if !result.IsError() {
					t.Fatal("expected an error result")
				}
				if result.Err().Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, result.Err().Code)
				}
				return
			}

			if !result.IsSuccess() {
				t.Fatalf("expected success, got %+v", result.Err())
			}
			user := result.User()
			if user.AuthMethod != domain.AuthMethodGoogle || user.IsGuest {
				t.Errorf("unexpected user %+v", user)
			}
			token := result.Token()
			if token.ExpiresAt-token.CreatedAt != 3600*1000 {
				t.Errorf("expected 1h token, got %d ms", token.ExpiresAt-token.CreatedAt)
			}
		})
	}
}

func TestValidateAppleSignIn(t *testing.T) {
	tests := []struct {
		name          string
		identityToken string
		userID        string
		email         string
		wantCode      domain.AuthErrorCode
	}{
		{name: "valid with email", identityToken: "tok", userID: "001234.abcd", email: "user@example.com"},
		{name: "valid without email", identityToken: "tok", userID: "001234.abcd", email: ""},
		{name: "blank identity token", identityToken: "", userID: "001234.abcd", wantCode: domain.ErrCodeOAuth},
		{name: "user id without apple prefix", identityToken: "tok", userID: "12345", wantCode: domain.ErrCodeOAuth},
		{name: "invalid email when present", identityToken: "tok", userID: "001234.abcd", email: "bad", wantCode: domain.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAppleSignIn(tt.identityToken, tt.userID, tt.email, "", testNow)

			if tt.wantCode != "" {
				if !result.IsError() {
					t.Fatal("expected an error result")
				}
				if result.Err().Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, result.Err().Code)
				}
				if tt.wantCode == domain.ErrCodeOAuth && result.Err().Provider != domain.AuthMethodApple {
					t.Errorf("expected APPLE provider, got %s", result.Err().Provider)
				}
				return
			}

			if !result.IsSuccess() {
				t.Fatalf("expected success, got %+v", result.Err())
			}
			if result.User().AuthMethod != domain.AuthMethodApple {
				t.Errorf("unexpected method %s", result.User().AuthMethod)
			}
		})
	}
}

func TestValidateEmailOTP(t *testing.T) {
	expiry := testNow.Add(5 * time.Minute)

	tests := []struct {
		name          string
		email         string
		otp           string
		attemptNumber int
		now           time.Time
		wantCode      domain.AuthErrorCode
		wantRemaining int
	}{
		{name: "valid first attempt", email: "user@example.com", otp: "123456", attemptNumber: 1, now: testNow},
		{name: "invalid email checked first", email: "bad", otp: "123456", attemptNumber: 1, now: testNow, wantCode: domain.ErrCodeValidation},
		{name: "expired beats attempt count", email: "user@example.com", otp: "000000", attemptNumber: 1, now: testNow.Add(6 * time.Minute), wantCode: domain.ErrCodeOTPExpired},
		{name: "first mismatch leaves two attempts", email: "user@example.com", otp: "000000", attemptNumber: 1, now: testNow, wantCode: domain.ErrCodeInvalidOTP, wantRemaining: 2},
		{name: "second mismatch leaves one attempt", email: "user@example.com", otp: "000000", attemptNumber: 2, now: testNow, wantCode: domain.ErrCodeInvalidOTP, wantRemaining: 1},
		{name: "third mismatch exhausts attempts", email: "user@example.com", otp: "000000", attemptNumber: 3, now: testNow, wantCode: domain.ErrCodeInvalidOTP, wantRemaining: 0},
		{name: "attempt past the budget clamps to zero", email: "user@example.com", otp: "000000", attemptNumber: 5, now: testNow, wantCode: domain.ErrCodeInvalidOTP, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEmailOTP(tt.email, tt.otp, "123456", expiry, tt.attemptNumber, DefaultMaxOTPAttempts, tt.now)

			if tt.wantCode != "" {
				if !result.IsError() {
					t.Fatal("expected an error result")
				}
				authErr := result.Err()
				if authErr.Code != tt.wantCode {
					t.Errorf("expected code %s, got %s", tt.wantCode, authErr.Code)
				}
				if tt.wantCode == domain.ErrCodeInvalidOTP {
					if authErr.AttemptsRemaining != tt.wantRemaining {
						t.Errorf("expected %d attempts remaining, got %d", tt.wantRemaining, authErr.AttemptsRemaining)
					}
					if tt.wantRemaining == 0 && authErr.Retryable() {
						t.Error("exhausted OTP must not be retryable")
					}
					if tt.wantRemaining > 0 && !authErr.Retryable() {
						t.Error("OTP with attempts remaining must be retryable")
					}
				}
				return
			}

			if !result.IsSuccess() {
				t.Fatalf("expected success, got %+v", result.Err())
			}
			user := result.User()
			if user.AuthMethod != domain.AuthMethodEmail || user.Email != tt.email {
				t.Errorf("unexpected user %+v", user)
			}
			token := result.Token()
			if token.ExpiresAt-token.CreatedAt != 30*24*60*60*1000 {
				t.Errorf("expected 30d session token, got %d ms", token.ExpiresAt-token.CreatedAt)
			}
		})
	}
}

func TestValidateTokenRefresh(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "well formed jwt shape", token: "eyJh.eyJz.c2ln"},
		{name: "blank token", token: "", wantErr: true},
		{name: "whitespace token", token: "   ", wantErr: true},
		{name: "two segments", token: "a.b", wantErr: true},
		{name: "four segments", token: "a.b.c.d", wantErr: true},
		{name: "empty middle segment", token: "a..c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTokenRefresh(tt.token)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if err.Code != domain.ErrCodeInvalidCredentials {
					t.Errorf("expected INVALID_CREDENTIALS, got %s", err.Code)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
		})
	}
}
