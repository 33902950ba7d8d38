package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

func loginBody(accessToken, method string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"access_token":  accessToken,
			"refresh_token": "header.refresh.sig",
			"token_type":    "Bearer",
			"expires_in":    900,
			"session_id":    "sess_1",
			"user": map[string]any{
				"id":          "u-1",
				"email":       "user@example.com",
				"name":        "Test User",
				"auth_method": method,
			},
		},
	}
}

func TestAPIGateway_SignInWithGoogle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["provider"] != "GOOGLE" || req["authorizationCode"] != "auth-code" {
			t.Errorf("unexpected payload: %v", req)
		}
		json.NewEncoder(w).Encode(loginBody("srv-access-token", "GOOGLE"))
	}))
	defer srv.Close()

	g := NewAPIGateway(srv.URL)
	result := g.SignInWithGoogle(context.Background(), "auth-code")

	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Err())
	}
	if result.User().ID != "u-1" || result.User().AuthMethod != domain.AuthMethodGoogle {
		t.Errorf("unexpected user: %+v", result.User())
	}
	if result.Token().Value != "srv-access-token" {
		t.Errorf("token = %q", result.Token().Value)
	}
	if result.RefreshToken() != "header.refresh.sig" {
		t.Errorf("refresh token = %q, want the issued one", result.RefreshToken())
	}
}

func TestAPIGateway_SignInRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	result := NewAPIGateway(srv.URL).SignInWithApple(context.Background(), "bad-code", "id-token")
	if !result.IsError() {
		t.Fatal("expected failure")
	}
	if result.Err().Code != domain.ErrCodeInvalidCredentials {
		t.Errorf("code = %s", result.Err().Code)
	}
}

func TestAPIGateway_TimeoutIsRetryableNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := NewAPIGateway(srv.URL).SignInWithGoogle(ctx, "auth-code")
	if !result.IsError() {
		t.Fatal("expected failure")
	}
	if result.Err().Code != domain.ErrCodeNetwork {
		t.Errorf("code = %s, want network error", result.Err().Code)
	}
	if !result.Err().Retryable() {
		t.Error("timeout should be retryable")
	}
}

func TestAPIGateway_VerifyEmailOTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]any
		wantCode domain.AuthErrorCode
		wantLeft int
	}{
		{"wrong code", http.StatusBadRequest,
			map[string]any{"error": "Invalid OTP code", "attempts_remaining": 1},
			domain.ErrCodeInvalidOTP, 1},
		{"expired", http.StatusBadRequest,
			map[string]any{"error": "OTP has expired"},
			domain.ErrCodeOTPExpired, 0},
		{"exhausted", http.StatusTooManyRequests,
			map[string]any{"error": "Maximum attempts exceeded"},
			domain.ErrCodeInvalidOTP, 0},
		{"rejected request shape", http.StatusBadRequest,
			map[string]any{"error": "Key: 'OTPVerifyRequest.Email' Error:Field validation for 'Email' failed on the 'email' tag"},
			domain.ErrCodeValidation, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			result := NewAPIGateway(srv.URL).VerifyEmailOTP(context.Background(), "user@example.com", "000000")
			if !result.IsError() {
				t.Fatal("expected failure")
			}
			if result.Err().Code != tt.wantCode {
				t.Errorf("code = %s, want %s", result.Err().Code, tt.wantCode)
			}
			if result.Err().AttemptsRemaining != tt.wantLeft {
				t.Errorf("attempts remaining = %d, want %d", result.Err().AttemptsRemaining, tt.wantLeft)
			}
		})
	}
}

func TestAPIGateway_VerifyEmailOTPSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginBody("otp-access-token", "EMAIL"))
	}))
	defer srv.Close()

	result := NewAPIGateway(srv.URL).VerifyEmailOTP(context.Background(), "user@example.com", "123456")
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Err())
	}
	if result.User().AuthMethod != domain.AuthMethodEmail {
		t.Errorf("auth method = %s", result.User().AuthMethod)
	}
}

func TestAPIGateway_RequestEmailOTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/otp/send" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"message": "OTP sent successfully"}})
	}))
	defer srv.Close()

	if err := NewAPIGateway(srv.URL).RequestEmailOTP(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("expected nil, got %+v", err)
	}
}

func TestAPIGateway_RefreshRevokedSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Session has been revoked"})
	}))
	defer srv.Close()

	result := NewAPIGateway(srv.URL).RefreshSession(context.Background(), "header.refresh.sig")
	if !result.IsError() {
		t.Fatal("expected failure")
	}
	if result.Err().Code != domain.ErrCodeInvalidCredentials {
		t.Errorf("code = %s", result.Err().Code)
	}
}
