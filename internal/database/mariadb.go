// Package database provides connection setup for MariaDB and Redis.
// Both connections are created once at startup and shared across the
// store API via dependency injection. This package owns the connection
// lifecycle (open, configure pool, ping, close) and schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// MariaDB driver -- imported for side effect of registering the driver.
	_ "github.com/go-sql-driver/mysql"

	"github.com/keyxmakerx/rolodex/internal/config"
)

// pingAttempts bounds how long startup waits for MariaDB to accept connections.
const pingAttempts = 10

// NewMariaDB opens a connection pool configured from cfg and pings it until
// it answers. MariaDB may still be starting when the store API container
// launches, so pings are retried with exponential backoff.
func NewMariaDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening mariadb connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := pingWithBackoff(ctx, db, pingAttempts, time.Second); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// pinger is the subset of *sql.DB used by pingWithBackoff.
type pinger interface {
	PingContext(ctx context.Context) error
}

// pingWithBackoff pings up to attempts times, doubling the wait between
// attempts up to 30s. It gives up early when ctx is done.
func pingWithBackoff(ctx context.Context, db pinger, attempts int, backoff time.Duration) error {
	var pingErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr = db.PingContext(pctx)
		cancel()
		if pingErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		slog.Warn("mariadb not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for mariadb: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}
	return fmt.Errorf("pinging mariadb after %d attempts: %w", attempts, pingErr)
}
