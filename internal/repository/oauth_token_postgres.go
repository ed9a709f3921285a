package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/domain"
)

type oauthTokenRepository struct {
	db *sql.DB
}

// NewOAuthTokenRepository creates a new PostgreSQL OAuth token repository
func NewOAuthTokenRepository(db *sql.DB) domain.OAuthTokenRepository {
	return &oauthTokenRepository{db: db}
}

// UpsertToken rewrites the single row for token.Service in one
// statement, so a refreshed token is never half-persisted.
func (r *oauthTokenRepository) UpsertToken(ctx context.Context, token *domain.OAuthToken) error {
	token.UpdatedAt = time.Now().UTC()
	query := `
		INSERT INTO oauth_tokens (service, access_token, refresh_token, expiry_date, scope, token_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (service) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), oauth_tokens.refresh_token),
			expiry_date = EXCLUDED.expiry_date,
			scope = EXCLUDED.scope,
			token_type = EXCLUDED.token_type,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		token.Service,
		token.AccessToken,
		nullString(token.RefreshToken),
		token.ExpiryDate,
		nullString(token.Scope),
		nullString(token.TokenType),
		token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert oauth token: %w", err)
	}
	return nil
}

func (r *oauthTokenRepository) GetToken(ctx context.Context, service string) (*domain.OAuthToken, error) {
	var (
		token     domain.OAuthToken
		refresh   sql.NullString
		expiry    sql.NullTime
		scope     sql.NullString
		tokenType sql.NullString
	)
	query := `
		SELECT service, access_token, refresh_token, expiry_date, scope, token_type, updated_at
		FROM oauth_tokens
		WHERE service = $1
	`
	err := r.db.QueryRowContext(ctx, query, service).Scan(
		&token.Service,
		&token.AccessToken,
		&refresh,
		&expiry,
		&scope,
		&tokenType,
		&token.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewErrNotFound("oauth token", service)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}
	token.RefreshToken = refresh.String
	token.ExpiryDate = expiry.Time
	token.Scope = scope.String
	token.TokenType = tokenType.String
	return &token, nil
}
