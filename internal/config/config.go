// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string `env:"ENV" envDefault:"development"`

	// Port is the HTTP listen port of the store API (default: 8080).
	Port int `env:"PORT" envDefault:"8080"`

	// BaseURL is the public-facing URL of the store API.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	// MigrationsPath is the directory holding *.up.sql / *.down.sql files.
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`

	// TrustedProxies lists CIDRs whose X-Forwarded-For headers are honored.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Remote    RemoteConfig
	Dashboard DashboardConfig
}

// DatabaseConfig holds MariaDB connection parameters. If DATABASE_URL is set,
// it takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format. If no port is
	// specified, 3306 is appended automatically.
	Host     string `env:"DB_HOST" envDefault:"localhost:3306"`
	User     string `env:"DB_USER" envDefault:"rolodex"`
	Password string `env:"DB_PASSWORD" envDefault:"rolodex"`
	Name     string `env:"DB_NAME" envDefault:"rolodex"`

	// URL bypasses the individual fields when set.
	URL string `env:"DATABASE_URL"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built with the driver's
// Config.FormatDSN() to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SecretKey guards production deployments; must be 32+ characters there.
	SecretKey string `env:"SECRET_KEY"`

	// SessionTTL is how long sessions last before expiring. Refresh extends
	// a live session by the same amount.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// LoginRateLimit caps login attempts per IP per minute.
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
}

// RemoteConfig tells dashboard-side processes where the store API lives and
// which account to sign in with.
type RemoteConfig struct {
	URL      string `env:"REMOTE_URL" envDefault:"http://localhost:8080"`
	Email    string `env:"REMOTE_EMAIL"`
	Password string `env:"REMOTE_PASSWORD"`

	// Timeout bounds a single HTTP round-trip. Zero disables the bound.
	Timeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
}

// DashboardConfig holds settings for the dashboard process.
type DashboardConfig struct {
	Port int `env:"DASHBOARD_PORT" envDefault:"8090"`

	// AllowedOrigins lists browser origins allowed to call the dashboard API.
	AllowedOrigins []string `env:"DASHBOARD_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// DiscardStaleReads drops list/search responses that arrive after a
	// newer list/search response was already applied.
	DiscardStaleReads bool `env:"DASHBOARD_DISCARD_STALE_READS" envDefault:"false"`
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	if !cfg.IsDevelopment() {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev" || env == "test"
}

// SlogLevel parses LogLevel, falling back to info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
