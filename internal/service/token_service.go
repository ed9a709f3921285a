package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/singleflight"

	"github.com/stitchdesk/stitchdesk/config"
	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

// Tokens are refreshed this long before their reported expiry.
const tokenExpiryWindow = 5 * time.Minute

// GoogleOAuthScopes is the single grant shared by the Drive and Sheets
// adapters.
var GoogleOAuthScopes = []string{
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/spreadsheets",
}

// TokenService is the process-wide token store. The backing source
// (database row, token file, or platform connector) is fixed at
// construction from config; all callers go through the in-memory cache
// and concurrent refreshes collapse into one in-flight exchange.
type TokenService struct {
	cfg        *config.GoogleConfig
	repo       domain.OAuthTokenRepository
	logger     logger.Logger
	httpClient *http.Client

	mu     sync.RWMutex
	cached *domain.OAuthToken
	group  singleflight.Group
}

// NewTokenService creates a token service for the configured source mode.
func NewTokenService(cfg *config.GoogleConfig, repo domain.OAuthTokenRepository, logger logger.Logger) *TokenService {
	return &TokenService{
		cfg:        cfg,
		repo:       repo,
		logger:     logger,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// OAuthConfig returns the oauth2 configuration used for the
// authorization-code flow and refresh exchanges.
func (s *TokenService) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Scopes:       GoogleOAuthScopes,
		Endpoint:     google.Endpoint,
	}
}

// GetAccessToken returns a bearer token valid for at least the expiry
// window, refreshing and persisting first when needed.
func (s *TokenService) GetAccessToken(ctx context.Context, service string) (string, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()

	if cached != nil && !cached.ExpiresWithin(tokenExpiryWindow) {
		return cached.AccessToken, nil
	}

	// One refresh at a time; concurrent callers share the result.
	result, err, _ := s.group.Do("refresh:"+service, func() (interface{}, error) {
		token, err := s.loadOrRefresh(ctx, service)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = token
		s.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return result.(*domain.OAuthToken).AccessToken, nil
}

func (s *TokenService) loadOrRefresh(ctx context.Context, service string) (*domain.OAuthToken, error) {
	switch s.cfg.TokenSource {
	case config.TokenSourceFile:
		return s.loadFromFile(ctx)
	case config.TokenSourceConnector:
		return s.loadFromConnector(ctx)
	default:
		return s.loadFromDB(ctx, service)
	}
}

func (s *TokenService) loadFromDB(ctx context.Context, service string) (*domain.OAuthToken, error) {
	token, err := s.repo.GetToken(ctx, service)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.ErrUnauthenticated{Reason: "Google account not connected"}
		}
		return nil, err
	}
	if !token.ExpiresWithin(tokenExpiryWindow) {
		return token, nil
	}

	refreshed, err := s.refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	// Persist before returning so a crash cannot lose the new token.
	if err := s.repo.UpsertToken(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	return refreshed, nil
}

// fileToken matches the token.json layout written by the Google OAuth
// setup tooling (expiry_date in epoch milliseconds).
type fileToken struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiryDate   int64  `json:"expiry_date,omitempty"`
}

func (s *TokenService) loadFromFile(ctx context.Context) (*domain.OAuthToken, error) {
	data, err := os.ReadFile(s.cfg.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.ErrUnauthenticated{Reason: "token file not found, run the authorization flow first"}
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var ft fileToken
	if err := json.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}

	token := &domain.OAuthToken{
		Service:      domain.GoogleService,
		AccessToken:  ft.AccessToken,
		RefreshToken: ft.RefreshToken,
		Scope:        ft.Scope,
		TokenType:    ft.TokenType,
	}
	if ft.ExpiryDate > 0 {
		token.ExpiryDate = time.UnixMilli(ft.ExpiryDate)
	}
	if !token.ExpiresWithin(tokenExpiryWindow) {
		return token, nil
	}

	refreshed, err := s.refresh(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.writeTokenFile(refreshed); err != nil {
		return nil, err
	}
	return refreshed, nil
}

func (s *TokenService) writeTokenFile(token *domain.OAuthToken) error {
	ft := fileToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Scope:        token.Scope,
		TokenType:    token.TokenType,
	}
	if !token.ExpiryDate.IsZero() {
		ft.ExpiryDate = token.ExpiryDate.UnixMilli()
	}
	data, err := json.MarshalIndent(ft, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token file: %w", err)
	}
	if err := os.WriteFile(s.cfg.TokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// loadFromConnector fetches a short-lived token from the platform
// connector endpoint. The connector manages refresh itself, so an
// expired token is handled by re-fetching rather than an OAuth
// exchange.
func (s *TokenService) loadFromConnector(ctx context.Context) (*domain.OAuthToken, error) {
	if s.cfg.ConnectorHostname == "" || s.cfg.ConnectorToken == "" {
		return nil, &domain.ErrUnauthenticated{Reason: "connector credentials not configured"}
	}

	url := fmt.Sprintf("https://%s/api/v2/connection?include_secrets=true&connector_names=google-drive", s.cfg.ConnectorHostname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build connector request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X_REPLIT_TOKEN", s.cfg.ConnectorToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "connector", Op: "fetch token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ErrExternalService{Service: "connector", Op: "fetch token", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "connector", Op: "read response", Err: err}
	}

	item := gjson.GetBytes(body, "items.0")
	accessToken := item.Get("settings.access_token").String()
	if accessToken == "" {
		accessToken = item.Get("settings.oauth.credentials.access_token").String()
	}
	if accessToken == "" {
		return nil, &domain.ErrUnauthenticated{Reason: "Google Drive connector not connected"}
	}

	token := &domain.OAuthToken{
		Service:     domain.GoogleService,
		AccessToken: accessToken,
	}
	if expiresAt := item.Get("settings.expires_at").String(); expiresAt != "" {
		if t, err := time.Parse(time.RFC3339, expiresAt); err == nil {
			token.ExpiryDate = t
		}
	}
	return token, nil
}

// refresh exchanges the stored refresh token for a new access token.
func (s *TokenService) refresh(ctx context.Context, token *domain.OAuthToken) (*domain.OAuthToken, error) {
	if token.RefreshToken == "" {
		return nil, &domain.ErrUnauthenticated{Reason: "access token expired and no refresh token available, reauthorize the Google account"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	source := s.OAuthConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: token.RefreshToken})
	fresh, err := source.Token()
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "google", Op: "token refresh", Err: err}
	}

	s.logger.WithField("service", token.Service).Info("Refreshed OAuth access token")

	refreshToken := fresh.RefreshToken
	if refreshToken == "" {
		refreshToken = token.RefreshToken
	}
	return &domain.OAuthToken{
		Service:      token.Service,
		AccessToken:  fresh.AccessToken,
		RefreshToken: refreshToken,
		ExpiryDate:   fresh.Expiry,
		Scope:        token.Scope,
		TokenType:    fresh.TokenType,
	}, nil
}

// SaveToken persists a token obtained from the authorization-code flow
// and primes the cache.
func (s *TokenService) SaveToken(ctx context.Context, tok *oauth2.Token) error {
	token := &domain.OAuthToken{
		Service:      domain.GoogleService,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiryDate:   tok.Expiry,
		TokenType:    tok.TokenType,
	}

	switch s.cfg.TokenSource {
	case config.TokenSourceFile:
		if err := s.writeTokenFile(token); err != nil {
			return err
		}
	case config.TokenSourceConnector:
		return fmt.Errorf("connector token source does not accept saved tokens")
	default:
		if err := s.repo.UpsertToken(ctx, token); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cached = token
	s.mu.Unlock()
	return nil
}

// Status reports the connection state for GET /api/auth/status.
func (s *TokenService) Status(ctx context.Context) *domain.TokenStatus {
	token, err := s.loadCurrent(ctx)
	if err != nil || token == nil {
		return &domain.TokenStatus{Connected: false}
	}

	status := &domain.TokenStatus{
		Connected:       true,
		HasRefreshToken: token.RefreshToken != "",
	}
	if !token.ExpiryDate.IsZero() {
		expiresAt := token.ExpiryDate
		status.ExpiresAt = &expiresAt
		status.IsExpired = time.Now().After(expiresAt)
	}
	return status
}

// loadCurrent reads the stored token without triggering a refresh.
func (s *TokenService) loadCurrent(ctx context.Context) (*domain.OAuthToken, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	switch s.cfg.TokenSource {
	case config.TokenSourceFile:
		data, err := os.ReadFile(s.cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		var ft fileToken
		if err := json.Unmarshal(data, &ft); err != nil {
			return nil, err
		}
		token := &domain.OAuthToken{
			Service:      domain.GoogleService,
			AccessToken:  ft.AccessToken,
			RefreshToken: ft.RefreshToken,
		}
		if ft.ExpiryDate > 0 {
			token.ExpiryDate = time.UnixMilli(ft.ExpiryDate)
		}
		return token, nil
	case config.TokenSourceConnector:
		return s.loadFromConnector(ctx)
	default:
		return s.repo.GetToken(ctx, domain.GoogleService)
	}
}
