// Package config loads server settings from environment variables.
//
// Every variable has a default except JWT_SECRET. Problems are collected and
// reported together, so a misconfigured deploy shows every bad variable in
// one error instead of failing on them one at a time.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full set of knobs the server reads at startup.
type Config struct {
	Port         int
	DBPath       string
	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	CORSOrigins  []string
	CookieSecure bool
	LogLevel     slog.Level
}

const (
	defaultPort       = 8000
	defaultDBPath     = "data/messages.db"
	defaultTokenTTL   = 7 * 24 * time.Hour
	defaultBcryptCost = 12
	minSecretLength   = 16
)

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from any key lookup function. Tests pass a map
// instead of mutating the real environment.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	var errs []error

	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		DBPath:    get("DB_PATH", defaultDBPath),
		JWTSecret: get("JWT_SECRET", ""),
	}

	port, err := strconv.Atoi(get("PORT", strconv.Itoa(defaultPort)))
	if err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT: %q is not a valid port", get("PORT", "")))
	}
	cfg.Port = port

	ttl, err := time.ParseDuration(get("TOKEN_TTL", defaultTokenTTL.String()))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL: %q is not a positive duration", get("TOKEN_TTL", "")))
	}
	cfg.TokenTTL = ttl

	cost, err := strconv.Atoi(get("BCRYPT_COST", strconv.Itoa(defaultBcryptCost)))
	if err != nil || cost < 4 || cost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST: %q must be between 4 and 31", get("BCRYPT_COST", "")))
	}
	cfg.BcryptCost = cost

	secure, err := strconv.ParseBool(get("COOKIE_SECURE", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("COOKIE_SECURE: %w", err))
	}
	cfg.CookieSecure = secure

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "INFO"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET: missing required environment variable"))
	case len(cfg.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET: must be at least %d characters", minSecretLength))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}
