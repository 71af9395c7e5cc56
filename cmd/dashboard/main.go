// Package main runs the dashboard process: it signs in to the store API,
// loads contacts, campaigns and tags into their controllers and serves the
// dashboard JSON API to the browser front end.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/rolodex/internal/config"
	"github.com/keyxmakerx/rolodex/internal/dashboard"
	"github.com/keyxmakerx/rolodex/internal/middleware"
	"github.com/keyxmakerx/rolodex/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dashboard stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("dashboard stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := remote.New(cfg.Remote.URL,
		remote.WithTimeout(cfg.Remote.Timeout),
		remote.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating store client: %w", err)
	}

	if cfg.Remote.Email != "" {
		if _, err := client.SignIn(ctx, cfg.Remote.Email, cfg.Remote.Password); err != nil {
			return fmt.Errorf("signing in to %s: %w", cfg.Remote.URL, err)
		}
		logger.Info("signed in to store API", slog.String("email", cfg.Remote.Email))
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.SignOut(sctx); err != nil {
				logger.Warn("sign-out failed", slog.Any("error", err))
			}
		}()
	}

	dash := dashboard.New(dashboard.Stores{
		Contacts:  client.Contacts(),
		Campaigns: client.Campaigns(),
		Tags:      client.Tags(),
	}, dashboard.Options{
		Logger:            logger,
		Refresher:         remote.Credentials{Client: client, Email: cfg.Remote.Email, Password: cfg.Remote.Password},
		DiscardStaleReads: cfg.Dashboard.DiscardStaleReads,
	})

	// A failed first load is reported through each kind's error state; the
	// front end can retry with POST /dashboard/api/reload.
	if err := dash.Bootstrap(ctx); err != nil {
		logger.Warn("initial load incomplete", slog.Any("error", err))
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigins: cfg.Dashboard.AllowedOrigins}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	dashboard.RegisterRoutes(e.Group("/dashboard/api"), dashboard.NewHandler(dash))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Dashboard.Port)
		logger.Info("starting dashboard", slog.String("addr", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down dashboard...")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

// setupLogging configures the global slog logger: text in development,
// JSON otherwise.
func setupLogging(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
