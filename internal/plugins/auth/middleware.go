package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// contextKeySession stores the authenticated *Session in the echo context.
const contextKeySession = "auth_session"

// RequireAuth returns middleware that validates the bearer token and stores
// the session in the request context. Missing or expired tokens are
// rejected with 401 unauthorized.
func RequireAuth(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := service.ValidateSession(c.Request().Context(), BearerToken(c))
			if err != nil {
				return err
			}
			c.Set(contextKeySession, session)
			return next(c)
		}
	}
}

// GetSession retrieves the authenticated session from the echo context.
// Returns nil if RequireAuth was not applied.
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header, or returns "".
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
