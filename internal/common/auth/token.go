// internal/common/auth/token.go

// Package auth manages OAuth client-credentials tokens for the telco API.
// Token caching and early refresh are delegated to the oauth2 library's
// reusable token source.
package auth

import (
	"context"
	"net/http"

	"callguard/internal/common/config"
	apperrors "callguard/internal/common/errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenSource yields bearer tokens for the telco collaborator APIs.
type TokenSource struct {
	source oauth2.TokenSource
}

// NewTokenSource builds a cached client-credentials token source.
func NewTokenSource(cfg config.TelcoConfig) *TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &TokenSource{
		source: cc.TokenSource(context.Background()),
	}
}

// BearerToken returns a valid access token, refreshing if needed.
func (t *TokenSource) BearerToken() (string, error) {
	tok, err := t.source.Token()
	if err != nil {
		return "", apperrors.NewAuthTokenFailedError(err)
	}
	return tok.AccessToken, nil
}

// Client returns an *http.Client that injects the bearer token on every
// request.
func (t *TokenSource) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, t.source)
}
