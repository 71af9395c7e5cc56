package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/plugins/auth"
	"github.com/keyxmakerx/rolodex/internal/plugins/campaigns"
	"github.com/keyxmakerx/rolodex/internal/plugins/contacts"
	"github.com/keyxmakerx/rolodex/internal/widgets/tags"
)

// RegisterRoutes wires repositories, services and handlers and mounts every
// route. This is the single place where routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	e.GET("/healthz", a.healthz)

	// --- Services ---
	authService := auth.NewAuthService(auth.NewUserRepository(a.DB), a.Redis, a.Config.Auth.SessionTTL)
	tagService := tags.NewTagService(tags.NewTagRepository(a.DB))
	contactService := contacts.NewContactService(contacts.NewContactRepository(a.DB), tagService)
	campaignService := campaigns.NewCampaignService(campaigns.NewCampaignRepository(a.DB), tagService, contactService)

	// --- API Routes ---
	api := e.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewHandler(authService), authService, a.Config.Auth.LoginRateLimit)

	// Authenticated route group -- everything below requires a bearer token.
	authed := api.Group("", auth.RequireAuth(authService))
	tags.RegisterRoutes(authed, tags.NewHandler(tagService))
	contacts.RegisterRoutes(authed, contacts.NewHandler(contactService))
	campaigns.RegisterRoutes(authed, campaigns.NewHandler(campaignService))
}

// healthz reports whether MariaDB and Redis answer.
func (a *App) healthz(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
	code := http.StatusOK
	if err := a.DB.PingContext(ctx); err != nil {
		status["database"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	if err := a.Redis.Ping(ctx).Err(); err != nil {
		status["redis"] = "unavailable"
		status["status"] = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, status)
}
