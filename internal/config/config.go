// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// SecretKey signs session cookies. Required.
	SecretKey string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// AppEnv names the deployment (development, staging, production).
	// Reported to Sentry.
	AppEnv string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:3000"] (React dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// SessionStoreURL is a redis:// URL for server-side sessions. Empty keeps
	// sessions in the signed cookie.
	SessionStoreURL string
	SessionName     string
	// SessionMaxAge is the cookie lifetime. 0 issues a browser-session cookie.
	SessionMaxAge time.Duration
	SessionSecure bool

	// RegisterStartsSession signs users in on /register. Defaults to true.
	RegisterStartsSession bool
	// PublicPlanReads serves trip plans without a session. Defaults to false.
	PublicPlanReads bool

	PlannerAPIURL  string
	PlannerAPIKey  string
	PlannerTimeout time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// AutoMigrate applies pending migrations at startup. Defaults to true.
	AutoMigrate bool

	// SentryDSN enables error reporting when set.
	SentryDSN string

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory or its parent is loaded first; it
// never overrides variables already set in the environment.
// Returns an error listing any required variables that are not set, or any
// variable whose value cannot be parsed.
func Load() (Config, error) {
	loadDotEnv("../.env", ".env")

	p := parser{}
	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		AppEnv:                getEnv("APP_ENV", "development"),
		CORSOrigins:           splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		SessionStoreURL:       os.Getenv("SESSION_STORE_URL"),
		SessionName:           getEnv("SESSION_NAME", "volta_session"),
		SessionMaxAge:         p.getDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		SessionSecure:         p.getBool("SESSION_SECURE", false),
		RegisterStartsSession: p.getBool("REGISTER_STARTS_SESSION", true),
		PublicPlanReads:       p.getBool("PUBLIC_PLAN_READS", false),
		PlannerAPIURL:         os.Getenv("PLANNER_API_URL"),
		PlannerAPIKey:         os.Getenv("PLANNER_API_KEY"),
		PlannerTimeout:        p.getDuration("PLANNER_TIMEOUT", 15*time.Second),
		MaxBodyBytes:          p.getInt64("MAX_BODY_BYTES", 1<<20),
		AutoMigrate:           p.getBool("AUTO_MIGRATE", true),
		SentryDSN:             os.Getenv("SENTRY_DSN"),
		ShutdownTimeout:       p.getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("invalid environment variables: MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

// loadDotEnv loads the first .env file found among paths.
func loadDotEnv(paths ...string) {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			return
		}
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("could not load env file", "path", path, "error", err)
		}
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser reads typed variables and remembers the ones it could not parse.
type parser struct {
	invalid []string
}

func (p *parser) getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return b
}

func (p *parser) getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

// getDuration accepts Go duration strings ("15s", "168h") or a bare number of
// seconds.
func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return d
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
