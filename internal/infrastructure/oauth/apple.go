package oauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/guyghost/wakeve-auth/domain"
)

var appleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://appleid.apple.com/auth/authorize",
	TokenURL: "https://appleid.apple.com/auth/token",
}

// AppleConfig configures the Sign in with Apple code exchange. ClientSecret
// is the pre-built ES256 client secret JWT Apple requires.
type AppleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	TokenURL string
}

// AppleExchanger implements domain.OAuthExchanger for Sign in with Apple.
type AppleExchanger struct {
	config *oauth2.Config
}

// NewAppleExchanger creates an Apple exchanger.
func NewAppleExchanger(cfg AppleConfig) *AppleExchanger {
	endpoint := appleEndpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	return &AppleExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"name", "email"},
			Endpoint:     endpoint,
		},
	}
}

func (e *AppleExchanger) Provider() domain.AuthMethod {
	return domain.AuthMethodApple
}

// Exchange trades the authorization code for tokens and reads the identity
// from the id_token Apple returns. The id_token arrived directly from
// Apple's token endpoint over TLS, so its claims are read without a second
// signature check against Apple's JWKS.
func (e *AppleExchanger) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("apple token exchange: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil, fmt.Errorf("apple token response carried no id_token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse apple id_token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("apple id_token carried no subject")
	}
	email, _ := claims["email"].(string)

	return &domain.OAuthProfile{
		ProviderUserID: sub,
		Email:          email,
		Name:           nameFromEmail(email),
		IDToken:        idToken,
	}, nil
}

// nameFromEmail derives a fallback display name. Apple only sends the real
// name in the first authorization response on the client, never here.
func nameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}

var _ domain.OAuthExchanger = (*AppleExchanger)(nil)
