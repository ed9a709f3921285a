package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination mocks/mock_oauth_token_repository.go -package mocks github.com/stitchdesk/stitchdesk/internal/domain OAuthTokenRepository

// GoogleService is the oauth_tokens row key for the single Google grant
// shared by the Drive and Sheets adapters.
const GoogleService = "google"

// OAuthToken is the persisted OAuth2 grant for one external service.
// At most one authoritative row exists per service; a refresh rewrites
// the row in place via a transactional upsert.
type OAuthToken struct {
	Service      string    `json:"service"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiryDate   time.Time `json:"expiryDate"`
	Scope        string    `json:"scope,omitempty"`
	TokenType    string    `json:"tokenType,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ExpiresWithin reports whether the token expires inside the given
// window. Tokens without an expiry never do.
func (t *OAuthToken) ExpiresWithin(window time.Duration) bool {
	if t.ExpiryDate.IsZero() {
		return false
	}
	return time.Now().Add(window).After(t.ExpiryDate)
}

// TokenStatus is the shape of GET /api/auth/status
type TokenStatus struct {
	Connected       bool       `json:"connected"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	IsExpired       bool       `json:"isExpired,omitempty"`
	HasRefreshToken bool       `json:"hasRefreshToken,omitempty"`
}

type OAuthTokenRepository interface {
	// UpsertToken atomically replaces the row for token.Service.
	UpsertToken(ctx context.Context, token *OAuthToken) error
	GetToken(ctx context.Context, service string) (*OAuthToken, error)
}
