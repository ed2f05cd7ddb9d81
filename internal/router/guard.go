package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"codearena/internal/auth"
)

// SessionChecker reports whether a token is the account's active session
// token. Satisfied by service.SessionService.
type SessionChecker interface {
	IsActiveToken(ctx context.Context, email, token string) (bool, error)
}

// SessionGuard is the authorization filter behind the JWT middleware. It
// re-parses the bearer token with the application's claims type, rejects
// revoked tokens via the blacklist, and turns away tokens that are no longer
// the account's current session, then exposes token and claims to the
// handlers. A logged-out or force-logged-out bearer is rejected here even
// though its token is still validly signed and unexpired.
func SessionGuard(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			const prefix = "Bearer "
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, prefix) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, prefix)

			claims, err := jwtService.ValidateToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			revoked, err := blacklist.IsBlacklisted(c.Request().Context(), raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "token check failed")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			active, err := sessions.IsActiveToken(c.Request().Context(), claims.Email, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session check failed")
			}
			if !active {
				return echo.NewHTTPError(http.StatusUnauthorized, "session no longer active")
			}

			c.Set(auth.ContextKeyToken, raw)
			c.Set(auth.ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// RequireRole restricts a route group to bearers carrying the given role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(auth.ContextKeyClaims).(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			for _, r := range claims.Roles {
				if r == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
