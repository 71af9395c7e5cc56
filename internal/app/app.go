// Package app is the store API's bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, Echo instance)
// and wires the auth plugin, the contacts and campaigns plugins and the tags
// widget together.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/rolodex/internal/config"
	"github.com/keyxmakerx/rolodex/internal/middleware"
)

// defaultTrustedProxies covers loopback and private networks, where a
// reverse proxy in front of the API normally lives.
var defaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"fd00::/8",
}

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
	Echo   *echo.Echo
	Logger *slog.Logger
}

// New creates an App and configures the Echo server with global middleware
// and the JSON error handler.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the actual
	// client IP instead of the proxy's IP. Rate limiting depends on it.
	proxies := cfg.TrustedProxies
	if len(proxies) == 0 {
		proxies = defaultTrustedProxies
	}
	if err := middleware.TrustedProxies(e, proxies); err != nil {
		return nil, fmt.Errorf("configuring trusted proxies: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Echo:   e,
		Logger: logger,
	}
	a.setupMiddleware()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	return a, nil
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestLogger(a.Logger))
	a.Echo.Use(middleware.SecurityHeaders())
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   append([]string{a.Config.BaseURL}, a.Config.Dashboard.AllowedOrigins...),
		AllowCredentials: false,
	}))
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	a.Logger.Info("starting store API",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
