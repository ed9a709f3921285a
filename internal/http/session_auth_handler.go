package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
	"github.com/stitchdesk/stitchdesk/pkg/signer"
)

// SessionAuthHandler handles the admin and tailor sign-in flows and the
// session cookie lifecycle. Cookie values carry an HMAC signature so a
// guessed session ID alone is not enough.
type SessionAuthHandler struct {
	authService  *service.AuthService
	logger       logger.Logger
	signer       *signer.Signer
	cookieName   string
	sessionTTL   time.Duration
	secureCookie bool
}

func NewSessionAuthHandler(
	authService *service.AuthService,
	logger logger.Logger,
	sig *signer.Signer,
	cookieName string,
	sessionTTL time.Duration,
	secureCookie bool,
) *SessionAuthHandler {
	return &SessionAuthHandler{
		authService:  authService,
		logger:       logger,
		signer:       sig,
		cookieName:   cookieName,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the session auth routes
func (h *SessionAuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /auth/admin/login", http.HandlerFunc(h.AdminLogin))
	mux.Handle("POST /auth/tailor/login", http.HandlerFunc(h.TailorLogin))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))
	// Logout accepts GET so a plain link can end the session.
	mux.Handle("/auth/logout", http.HandlerFunc(h.Logout))
}

// AdminLogin handles email+password sign-in
func (h *SessionAuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, session, err := h.authService.AdminLogin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, "sign in", err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// TailorLogin handles access-code sign-in
func (h *SessionAuthHandler) TailorLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.TailorLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, session, err := h.authService.TailorLogin(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, "sign in", err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Status reports whether the request carries a valid session
func (h *SessionAuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	sessionID, ok := h.signer.Verify(cookie.Value)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	user, err := h.authService.VerifySession(r.Context(), sessionID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

// Logout deletes the session and clears the cookie
func (h *SessionAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if sessionID, ok := h.signer.Verify(cookie.Value); ok {
			if err := h.authService.Logout(r.Context(), sessionID); err != nil {
				h.logger.WithField("error", err.Error()).Warn("Failed to delete session on logout")
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *SessionAuthHandler) setSessionCookie(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    h.signer.Sign(session.ID),
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
