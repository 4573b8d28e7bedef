package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the process configuration, loaded once at startup. Missing
// signing secrets or the main database URL are fatal: no request can be
// admitted without them.
type Config struct {
	Port int

	// DatabaseURL points at the shared main store (admin identities,
	// tenant directory). Tenant stores are derived from it by swapping
	// the database name.
	DatabaseURL    string
	TenantDBPrefix string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	TenantConnectTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CheckoutBaseURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 8080,
		TenantDBPrefix:       "staffhub",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      72 * time.Hour,
		TenantConnectTimeout: 10 * time.Second,
		RedisAddr:            "localhost:6379",
		CheckoutBaseURL:      "https://pay.staffhub.io/checkout",
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.AccessTokenSecret = os.Getenv("ACCESS_TOKEN_SECRET")
	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET environment variable is required")
	}

	cfg.RefreshTokenSecret = os.Getenv("REFRESH_TOKEN_SECRET")
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("REFRESH_TOKEN_SECRET environment variable is required")
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("TENANT_DB_PREFIX"); v != "" {
		cfg.TenantDBPrefix = v
	}

	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL %q: %w", v, err)
		}
		cfg.AccessTokenTTL = ttl
	}

	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL %q: %w", v, err)
		}
		cfg.RefreshTokenTTL = ttl
	}

	if v := os.Getenv("TENANT_CONNECT_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TENANT_CONNECT_TIMEOUT %q: %w", v, err)
		}
		cfg.TenantConnectTimeout = timeout
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if v := os.Getenv("CHECKOUT_BASE_URL"); v != "" {
		cfg.CheckoutBaseURL = v
	}

	return cfg, nil
}
