package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
)

const oauthStateCookie = "oauth_state"

// GoogleAuthHandler drives the one-time Google authorization flow and
// exposes the grant status.
type GoogleAuthHandler struct {
	tokenService *service.TokenService
	logger       logger.Logger
	secureCookie bool
	exchange     func(ctx context.Context, code string) (*oauth2.Token, error)
}

func NewGoogleAuthHandler(tokenService *service.TokenService, logger logger.Logger, secureCookie bool) *GoogleAuthHandler {
	return &GoogleAuthHandler{
		tokenService: tokenService,
		logger:       logger,
		secureCookie: secureCookie,
		exchange: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return tokenService.OAuthConfig().Exchange(ctx, code)
		},
	}
}

// RegisterRoutes registers the Google OAuth routes
func (h *GoogleAuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/auth/google", http.HandlerFunc(h.BeginAuth))
	mux.Handle("GET /oauth2callback", http.HandlerFunc(h.Callback))
	mux.Handle("GET /api/auth/status", http.HandlerFunc(h.Status))
}

// BeginAuth redirects to the Google consent screen. Offline access and
// forced consent guarantee a refresh token on the response.
func (h *GoogleAuthHandler) BeginAuth(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.tokenService.OAuthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback exchanges the authorization code and persists the grant.
func (h *GoogleAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		WriteJSONError(w, "Authorization denied: "+errMsg, http.StatusBadRequest)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		WriteJSONError(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		WriteJSONError(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	token, err := h.exchange(r.Context(), code)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to exchange authorization code")
		WriteJSONError(w, "Failed to exchange authorization code", http.StatusBadGateway)
		return
	}

	if err := h.tokenService.SaveToken(r.Context(), token); err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to persist Google token")
		WriteJSONError(w, "Failed to store token", http.StatusInternalServerError)
		return
	}

	// Clear the one-shot state cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("Google authorization completed")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Status reports whether a usable Google grant is on file.
func (h *GoogleAuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tokenService.Status(r.Context()))
}
