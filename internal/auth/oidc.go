package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/kajilog/kajilog/internal/config"
)

// DefaultProviderURL is the Google OIDC discovery URL.
const DefaultProviderURL = "https://accounts.google.com"

// GoogleProvider handles the Google OIDC code flow.
type GoogleProvider struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// NewGoogleProvider creates a Google OIDC provider from the configuration.
func NewGoogleProvider(ctx context.Context, cfg *config.Google) (*GoogleProvider, error) {
	if !cfg.Enabled {
		return nil, ErrGoogleDisabled
	}

	providerURL := cfg.ProviderURL
	if providerURL == "" {
		providerURL = DefaultProviderURL
	}

	provider, err := oidc.NewProvider(ctx, providerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	oauth2Config := oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return &GoogleProvider{
		provider: provider,
		verifier: verifier,
		oauth2:   oauth2Config,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// GetAuthURL returns the authorization URL with state token.
func (p *GoogleProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, verifies the ID token and
// extracts the identity assertion. The returned profile may be incomplete;
// the sign-in gate rejects incomplete ones.
func (p *GoogleProvider) HandleCallback(ctx context.Context, code string) (Profile, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return Profile{}, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err = idToken.Claims(&claims); err != nil {
		return Profile{}, fmt.Errorf("failed to parse claims: %w", err)
	}

	return Profile{
		Sub:   claims.Sub,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
