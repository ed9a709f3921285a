package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/pkg/signer"
)

// Key for storing the authenticated user in context
type contextKey string

const AuthUserKey contextKey = "auth_user"

// SessionVerifier resolves a session cookie value to its user.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) (*domain.User, error)
}

// AuthMiddleware guards routes behind the session cookie. The cookie
// value must carry a valid HMAC signature before the session is looked up.
type AuthMiddleware struct {
	verifier   SessionVerifier
	signer     *signer.Signer
	cookieName string
}

// NewAuthMiddleware creates a new auth middleware reading the named cookie
func NewAuthMiddleware(verifier SessionVerifier, sig *signer.Signer, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, signer: sig, cookieName: cookieName}
}

// RequireAuth creates a middleware that verifies the session cookie and
// puts the user in the request context.
func (m *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(m.cookieName)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			sessionID, ok := m.signer.Verify(cookie.Value)
			if !ok {
				writeUnauthorized(w)
				return
			}

			user, err := m.verifier.VerifySession(r.Context(), sessionID)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AuthUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// GetAuthenticatedUser retrieves the user set by RequireAuth, if any
func GetAuthenticatedUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(AuthUserKey).(*domain.User)
	return user, ok
}
