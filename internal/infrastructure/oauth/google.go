package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/guyghost/wakeve-auth/domain"
)

const defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleConfig configures the Google authorization-code exchange.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	TokenURL    string
	UserInfoURL string
}

// GoogleExchanger implements domain.OAuthExchanger for Google.
type GoogleExchanger struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleExchanger creates a Google exchanger.
func NewGoogleExchanger(cfg GoogleConfig) *GoogleExchanger {
	endpoint := googleEndpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultGoogleUserInfoURL
	}
	return &GoogleExchanger{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

func (e *GoogleExchanger) Provider() domain.AuthMethod {
	return domain.AuthMethodGoogle
}

// Exchange trades the authorization code for tokens and resolves the user's
// identity from the userinfo endpoint.
func (e *GoogleExchanger) Exchange(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := e.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange: %w", err)
	}

	userInfo, err := e.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if userInfo.Sub == "" {
		return nil, fmt.Errorf("google userinfo returned no subject")
	}

	idToken, _ := token.Extra("id_token").(string)
	return &domain.OAuthProfile{
		ProviderUserID: userInfo.Sub,
		Email:          userInfo.Email,
		Name:           userInfo.Name,
		IDToken:        idToken,
	}, nil
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (e *GoogleExchanger) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := e.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var userInfo googleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo response: %w", err)
	}
	return &userInfo, nil
}

var _ domain.OAuthExchanger = (*GoogleExchanger)(nil)
