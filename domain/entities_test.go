package domain

import (
	"testing"
	"time"
)

func TestNewAuthenticatedUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		method AuthMethod
	}{
		{name: "google user", method: AuthMethodGoogle},
		{name: "apple user", method: AuthMethodApple},
		{name: "email user", method: AuthMethodEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := NewAuthenticatedUser("u1", "a@b.com", "Ada", tt.method, now)

			if user.IsGuest {
				t.Error("authenticated user must not be a guest")
			}
			if !user.CanSync() {
				t.Error("authenticated user must be able to sync")
			}
			if user.AuthMethod != tt.method {
				t.Errorf("expected method %s, got %s", tt.method, user.AuthMethod)
			}
			if user.CreatedAt != now.UnixMilli() {
				t.Errorf("expected createdAt %d, got %d", now.UnixMilli(), user.CreatedAt)
			}
			if user.LastLoginAt != user.CreatedAt {
				t.Error("lastLoginAt should equal createdAt on creation")
			}
		})
	}
}

func TestNewGuestUser(t *testing.T) {
	now := time.Now()
	user := NewGuestUser("guest_abc", now)

	if !user.IsGuest {
		t.Error("guest user must have IsGuest set")
	}
	if user.AuthMethod != AuthMethodGuest {
		t.Errorf("expected method GUEST, got %s", user.AuthMethod)
	}
	if user.CanSync() {
		t.Error("guest user must not sync")
	}
	if user.Email != "" || user.Name != "" {
		t.Error("guest user must not carry email or name")
	}
}

func TestUserWithLastLogin(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	later := created.Add(48 * time.Hour)

	user := NewAuthenticatedUser("u1", "a@b.com", "Ada", AuthMethodEmail, created)
	updated := user.WithLastLogin(later)

	if user.LastLoginAt != created.UnixMilli() {
		t.Error("original user value must not be mutated")
	}
	if updated.LastLoginAt != later.UnixMilli() {
		t.Errorf("expected lastLoginAt %d, got %d", later.UnixMilli(), updated.LastLoginAt)
	}
}

func TestAuthTokenLifetimes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	short := NewShortLivedToken("id-token", 3600, now)
	if short.ExpiresAt-short.CreatedAt != 3600*1000 {
		t.Errorf("expected 1h window, got %d ms", short.ExpiresAt-short.CreatedAt)
	}

	long := NewSessionToken("session-token", 30, now)
	if long.ExpiresAt-long.CreatedAt != 30*24*60*60*1000 {
		t.Errorf("expected 30d window, got %d ms", long.ExpiresAt-long.CreatedAt)
	}

	if short.ExpiresAt <= short.CreatedAt || long.ExpiresAt <= long.CreatedAt {
		t.Error("token expiry must be after creation")
	}
}

func TestAuthTokenIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := NewShortLivedToken("tok", 60, now)

	if token.IsExpired(now) {
		t.Error("token should be valid immediately after issue")
	}
	if !token.IsExpired(now.Add(61 * time.Second)) {
		t.Error("token should be expired after its window")
	}
}

func TestAuthResultExclusivity(t *testing.T) {
	now := time.Now()
	user := NewAuthenticatedUser("u1", "a@b.com", "", AuthMethodGoogle, now)
	token := NewShortLivedToken("tok", 3600, now)

	tests := []struct {
		name    string
		result  AuthResult
		success bool
		guest   bool
		failed  bool
	}{
		{name: "success", result: NewAuthSuccess(user, token), success: true},
		{name: "guest", result: NewAuthGuest(NewGuestUser("guest_1", now)), guest: true},
		{name: "error", result: NewAuthFailure(NewNetworkError("timeout")), failed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.IsSuccess() != tt.success {
				t.Errorf("IsSuccess = %v, want %v", tt.result.IsSuccess(), tt.success)
			}
			if tt.result.IsGuest() != tt.guest {
				t.Errorf("IsGuest = %v, want %v", tt.result.IsGuest(), tt.guest)
			}
			if tt.result.IsError() != tt.failed {
				t.Errorf("IsError = %v, want %v", tt.result.IsError(), tt.failed)
			}
		})
	}
}
