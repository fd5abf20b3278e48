package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/golfjournal/internal/config"
	"github.com/templui/golfjournal/internal/ctxkeys"
	"github.com/templui/golfjournal/internal/db"
	"github.com/templui/golfjournal/internal/model"
	"github.com/templui/golfjournal/internal/repository"
	"github.com/templui/golfjournal/internal/service"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestConfig_IsSanitized(t *testing.T) {
	var got *config.Config
	h := Config(&config.Config{AppName: "Golf Journal", JWTSecret: "secret"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.Config(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, got)
	assert.Equal(t, "Golf Journal", got.AppName)
	assert.Empty(t, got.JWTSecret)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/stats", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/app/stats", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "/auth", rec.Header().Get("HX-Redirect"))

	req = httptest.NewRequest(http.MethodGet, "/app/stats", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{ID: "u1"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// GET issues the cookie.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/goals", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	token := cookies[0].Value

	req := httptest.NewRequest(http.MethodPatch, "/app/goals/target", strings.NewReader("target_score=80"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/app/goals/target", strings.NewReader("target_score=80"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/app/rounds", strings.NewReader("csrf_token="+token))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(time.Hour, 2)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))

	h := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 192.168.0.1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	assert.Equal(t, "203.0.113.9", getClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))
}

func TestSecurityHeaders_UsesNonce(t *testing.T) {
	var templNonce string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		templNonce = templ.GetNonce(r.Context())
	}), NonceMiddleware, SecurityHeaders)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	csp := rec.Header().Get("Content-Security-Policy")
	require.NotEmpty(t, templNonce)
	assert.Contains(t, csp, "'nonce-"+templNonce+"'")
	assert.Contains(t, csp, "connect-src 'self' ws: wss:")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAuthMiddleware(t *testing.T) {
	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	auth := service.NewAuthService(
		repository.NewUserRepository(database),
		repository.NewTokenRepository(database),
		service.NewEmailService("", "noreply@example.com", "http://localhost", "Golf Journal", true),
		"test-secret", false, time.Hour, time.Minute,
	)
	user, err := auth.SignInAnonymous(context.Background())
	require.NoError(t, err)

	var seen *model.User
	h := AuthMiddleware(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.User(r.Context())
	}))

	rec := httptest.NewRecorder()
	require.NoError(t, auth.StartSession(rec, user))
	session := rec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/app/stats", nil)
	req.AddCookie(session)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/app/stats", nil)
	req.AddCookie(&http.Cookie{Name: service.AuthCookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Nil(t, seen)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Empty(t, rec.Result().Cookies()[0].Value)
}
