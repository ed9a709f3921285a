package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stitchdesk/stitchdesk/internal/domain"
	"github.com/stitchdesk/stitchdesk/internal/repository"
	"github.com/stitchdesk/stitchdesk/internal/service"
	"github.com/stitchdesk/stitchdesk/pkg/logger"
	"github.com/stitchdesk/stitchdesk/pkg/signer"
)

const (
	testCookieName    = "stitchdesk_session"
	testSessionSecret = "test-session-secret"
)

func newSessionAuthMux(t *testing.T) (*http.ServeMux, *service.AuthService) {
	t.Helper()

	users := repository.NewInMemoryUserRepository()
	sessions := repository.NewInMemorySessionRepository()
	log := logger.NewLoggerWithLevel("disabled")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, users.CreateUser(context.Background(), &domain.User{
		Username:     "admin@example.com",
		PasswordHash: string(hash),
		Role:         domain.UserRoleAdmin,
	}))
	require.NoError(t, users.CreateUser(context.Background(), &domain.User{
		UserCode: "TLR-1234",
		Role:     domain.UserRoleTailor,
	}))

	authService := service.NewAuthService(users, sessions, log, time.Hour)

	mux := http.NewServeMux()
	sig := signer.New(testSessionSecret)
	NewSessionAuthHandler(authService, log, sig, testCookieName, time.Hour, false).RegisterRoutes(mux)
	return mux, authService
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", testCookieName)
	return nil
}

func TestSessionAuthHandler_AdminLogin(t *testing.T) {
	mux, _ := newSessionAuthMux(t)

	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
			strings.NewReader(`{"email":"admin@example.com","password":"correct-horse"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool         `json:"success"`
			User    *domain.User `json:"user"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, "admin@example.com", body.User.Username)
		assert.Equal(t, domain.UserRoleAdmin, body.User.Role)

		cookie := sessionCookie(t, rec)
		assert.NotEmpty(t, cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.False(t, cookie.Secure)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
			strings.NewReader(`{"email":"admin@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeErrorBody(t, rec)["error"])
	})

	t.Run("unknown email reports the same message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/admin/login",
			strings.NewReader(`{"email":"nobody@example.com","password":"correct-horse"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeErrorBody(t, rec)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/admin/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeErrorBody(t, rec)["error"])
	})
}

func TestSessionAuthHandler_TailorLogin(t *testing.T) {
	mux, _ := newSessionAuthMux(t)

	t.Run("valid code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tailor/login",
			strings.NewReader(`{"userCode":"TLR-1234"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Success bool         `json:"success"`
			User    *domain.User `json:"user"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.True(t, body.Success)
		assert.Equal(t, domain.UserRoleTailor, body.User.Role)
		assert.NotEmpty(t, sessionCookie(t, rec).Value)
	})

	t.Run("unknown code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/tailor/login",
			strings.NewReader(`{"userCode":"TLR-0000"}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid user code", decodeErrorBody(t, rec)["error"])
	})
}

func TestSessionAuthHandler_StatusAndLogout(t *testing.T) {
	mux, _ := newSessionAuthMux(t)

	login := httptest.NewRequest(http.MethodPost, "/auth/tailor/login",
		strings.NewReader(`{"userCode":"TLR-1234"}`))
	loginRec := httptest.NewRecorder()
	mux.ServeHTTP(loginRec, login)
	require.Equal(t, http.StatusOK, loginRec.Code)
	cookie := sessionCookie(t, loginRec)

	t.Run("status with session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, true, body["authenticated"])
		assert.NotNil(t, body["user"])
	})

	t.Run("cookie value is signed", func(t *testing.T) {
		sessionID, ok := signer.New(testSessionSecret).Verify(cookie.Value)
		require.True(t, ok)
		assert.NotEqual(t, cookie.Value, sessionID)
	})

	t.Run("tampered cookie is not authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value + "x"})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("status without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, false, body["authenticated"])
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cleared := sessionCookie(t, rec)
		assert.Empty(t, cleared.Value)
		assert.Equal(t, -1, cleared.MaxAge)

		status := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		status.AddCookie(cookie)
		statusRec := httptest.NewRecorder()
		mux.ServeHTTP(statusRec, status)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(statusRec.Body).Decode(&body))
		assert.Equal(t, false, body["authenticated"])
	})
}
