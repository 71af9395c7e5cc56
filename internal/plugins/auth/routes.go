package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/middleware"
)

// RegisterRoutes mounts the auth endpoints under g (normally /api/v1).
// Sign-in and register are public and rate-limited per IP.
func RegisterRoutes(g *echo.Group, h *Handler, service AuthService, signInLimit int) {
	g.POST("/auth/register", h.Register, middleware.RateLimit(5, time.Minute))
	g.POST("/auth/sign-in", h.SignIn, middleware.RateLimit(signInLimit, time.Minute))
	g.POST("/auth/refresh", h.Refresh)
	g.POST("/auth/sign-out", h.SignOut)
	g.GET("/auth/me", h.Me, RequireAuth(service))
}
