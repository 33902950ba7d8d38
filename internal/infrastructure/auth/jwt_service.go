package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guyghost/wakeve-auth/domain"
)

// JWTServiceImpl implements domain.TokenService using HMAC-signed JWTs.
type JWTServiceImpl struct {
	secretKey  []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	userRepo   domain.UserRepository
}

// NewJWTService creates a new JWT service.
func NewJWTService(secretKey, issuer, audience string, accessTTL, refreshTTL time.Duration, userRepo domain.UserRepository) domain.TokenService {
	return &JWTServiceImpl{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		userRepo:   userRepo,
	}
}

// generateJTI creates a unique JWT ID so two tokens for the same user are
// never byte-identical.
func (j *JWTServiceImpl) generateJTI() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateToken implements domain.TokenService.
func (j *JWTServiceImpl) GenerateToken(user domain.User) (string, error) {
	return j.signed(user, j.accessTTL)
}

// GenerateRefreshToken implements domain.TokenService.
func (j *JWTServiceImpl) GenerateRefreshToken(user domain.User) (string, error) {
	return j.signed(user, j.refreshTTL)
}

func (j *JWTServiceImpl) signed(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"userId":   user.ID,
		"provider": string(user.AuthMethod),
		"iss":      j.issuer,
		"aud":      j.audience,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
		"jti":      j.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// VerifyToken implements domain.TokenService. Malformed input is an
// expected, frequent case (clients send stale or tampered tokens), so every
// failure mode degrades to nil and is indistinguishable to the caller.
func (j *JWTServiceImpl) VerifyToken(tokenString string) *domain.TokenClaims {
	token, err := jwt.Parse(tokenString,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrTokenMalformed
			}
			return j.secretKey, nil
		},
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil
	}

	out := &domain.TokenClaims{
		Subject:   sub,
		Issuer:    j.issuer,
		Audience:  j.audience,
		ExpiresAt: int64(exp),
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if userID, ok := claims["userId"].(string); ok {
		out.UserID = userID
	}
	if provider, ok := claims["provider"].(string); ok {
		out.Provider = provider
	}
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = int64(iat)
	}
	return out
}

// UserFromToken implements domain.TokenService. It verifies the token and
// re-hydrates the user from the subject claim; nil if either step fails.
func (j *JWTServiceImpl) UserFromToken(ctx context.Context, tokenString string) *domain.User {
	claims := j.VerifyToken(tokenString)
	if claims == nil {
		return nil
	}
	user, err := j.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil
	}
	return user
}
