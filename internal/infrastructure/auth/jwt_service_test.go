package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/mocks"
)

const (
	testSecret   = "test-secret-key-at-least-32-bytes!!"
	testIssuer   = "wakeve-auth"
	testAudience = "wakeve-app"
)

func newTestJWTService(userRepo domain.UserRepository) domain.TokenService {
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	return NewJWTService(testSecret, testIssuer, testAudience, 15*time.Minute, 30*24*time.Hour, userRepo)
}

func testUser() domain.User {
	return domain.NewAuthenticatedUser("u-42", "ada@example.com", "Ada", domain.AuthMethodGoogle, time.Now())
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService(nil)
	user := testUser()

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := svc.VerifyToken(token)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, string(domain.AuthMethodGoogle), claims.Provider)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, testAudience, claims.Audience)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestJWTService_TokensAreUnique(t *testing.T) {
	svc := newTestJWTService(nil)
	user := testUser()

	a, err := svc.GenerateToken(user)
	require.NoError(t, err)
	b, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "jti should make every token unique")
}

func TestJWTService_VerifyNeverErrors(t *testing.T) {
	svc := newTestJWTService(nil)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage token", token: "invalid.jwt.token"},
		{name: "empty token", token: ""},
		{name: "single segment", token: "abcdef"},
		{name: "valid shape bad signature", token: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ1In0.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, svc.VerifyToken(tt.token))
		})
	}
}

func TestJWTService_RejectsWrongKeyIssuerAudienceAndExpiry(t *testing.T) {
	svc := newTestJWTService(nil)
	user := testUser()

	// Wrong signing key.
	other := NewJWTService("another-secret-key-32-bytes-long!!!", testIssuer, testAudience,
		15*time.Minute, time.Hour, mocks.NewMockUserRepository())
	forged, err := other.GenerateToken(user)
	require.NoError(t, err)
	assert.Nil(t, svc.VerifyToken(forged))

	// Wrong issuer.
	badIssuer := NewJWTService(testSecret, "someone-else", testAudience,
		15*time.Minute, time.Hour, mocks.NewMockUserRepository())
	tok, err := badIssuer.GenerateToken(user)
	require.NoError(t, err)
	assert.Nil(t, svc.VerifyToken(tok))

	// Wrong audience.
	badAud := NewJWTService(testSecret, testIssuer, "other-app",
		15*time.Minute, time.Hour, mocks.NewMockUserRepository())
	tok, err = badAud.GenerateToken(user)
	require.NoError(t, err)
	assert.Nil(t, svc.VerifyToken(tok))

	// Expired token, signed with the right key.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iss": testIssuer,
		"aud": testAudience,
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	assert.Nil(t, svc.VerifyToken(signed))
}

func TestJWTService_UserFromToken(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		if id == user.ID {
			u := user
			return &u, nil
		}
		return nil, domain.ErrUserNotFound
	}

	svc := newTestJWTService(userRepo)
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	got := svc.UserFromToken(context.Background(), token)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	// Verification failure and lookup failure both degrade to nil.
	assert.Nil(t, svc.UserFromToken(context.Background(), "invalid.jwt.token"))

	userRepo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return nil, domain.ErrUserNotFound
	}
	assert.Nil(t, svc.UserFromToken(context.Background(), token))
}
