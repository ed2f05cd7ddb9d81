package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"codearena/internal/auth"
	"codearena/internal/cache"
	"codearena/internal/model"
)

// stubSessions holds the active token per account, standing in for the
// user store behind SessionService.
type stubSessions struct {
	active map[string]string
}

func (s *stubSessions) IsActiveToken(_ context.Context, email, token string) (bool, error) {
	return s.active[email] == token, nil
}

func newGuardedEcho(t *testing.T, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, sessions SessionChecker) *echo.Echo {
	t.Helper()
	e := echo.New()
	guarded := e.Group("", SessionGuard(jwtService, blacklist, sessions))
	guarded.GET("/protected", func(c echo.Context) error {
		claims := c.Get(auth.ContextKeyClaims).(*auth.Claims)
		return c.String(http.StatusOK, claims.Email)
	})
	guarded.GET("/admin-only", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, RequireRole(model.RoleAdmin))
	return e
}

func TestSessionGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	blacklist := auth.NewRedisBlacklist(cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	jwtService := auth.NewJWTService("test-secret")

	token, err := jwtService.GenerateToken(1, "a@x.com", []string{model.RoleUser})
	assert.NoError(t, err)

	sessions := &stubSessions{active: map[string]string{"a@x.com": token}}
	e := newGuardedEcho(t, jwtService, blacklist, sessions)

	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@x.com", rec.Body.String())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("forged token is rejected", func(t *testing.T) {
		forged, err := auth.NewJWTService("other-secret").GenerateToken(1, "a@x.com", nil)
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token replayed after logout is rejected", func(t *testing.T) {
		// Logout clears the stored session token without touching the
		// blacklist; the signed-but-superseded token must still be turned
		// away until the account logs in again.
		delete(sessions.active, "a@x.com")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		sessions.active["a@x.com"] = token
	})

	t.Run("token from a previous session is rejected", func(t *testing.T) {
		newer, err := jwtService.GenerateToken(1, "a@x.com", []string{model.RoleUser})
		assert.NoError(t, err)
		sessions.active["a@x.com"] = newer

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		sessions.active["a@x.com"] = token
	})

	t.Run("blacklisted token is rejected while still validly signed", func(t *testing.T) {
		assert.NoError(t, blacklist.Blacklist(context.Background(), token, time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mr := miniredis.RunT(t)
	blacklist := auth.NewRedisBlacklist(cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	jwtService := auth.NewJWTService("test-secret")
	sessions := &stubSessions{active: map[string]string{}}
	e := newGuardedEcho(t, jwtService, blacklist, sessions)

	t.Run("user role is turned away from admin routes", func(t *testing.T) {
		token, err := jwtService.GenerateToken(1, "user@x.com", []string{model.RoleUser})
		assert.NoError(t, err)
		sessions.active["user@x.com"] = token

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin role passes", func(t *testing.T) {
		token, err := jwtService.GenerateToken(2, "root@x.com", []string{model.RoleAdmin})
		assert.NoError(t, err)
		sessions.active["root@x.com"] = token

		req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
