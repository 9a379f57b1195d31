package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// MaxSyncPageSize bounds the per-store order page requested by the sync job.
	MaxSyncPageSize = 50

	devJWTSecret = "storepulse-dev-secret"
)

// Config holds every runtime setting of the API process.
type Config struct {
	Port           string
	Env            string
	DatabaseURL    string
	DatabaseDriver string
	JWTSecret      string
	TokenEncKeyB64 string
	AllowedOrigins []string

	ShopifyWebhookSecret string
	ShopifyAPIVersion    string
	ShopifyBaseURL       string

	SyncInterval    time.Duration
	SyncPageSize    int
	SyncConcurrency int
	SyncHTTPTimeout time.Duration
}

// Load reads a .env file when one exists and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: ignoring .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                 valueOr(getenv("APP_PORT"), "8080"),
		Env:                  strings.ToLower(valueOr(getenv("APP_ENV"), EnvDevelopment)),
		DatabaseURL:          strings.TrimSpace(getenv("DATABASE_URL")),
		DatabaseDriver:       strings.ToLower(valueOr(getenv("DATABASE_DRIVER"), "postgres")),
		JWTSecret:            getenv("JWT_SECRET"),
		TokenEncKeyB64:       strings.TrimSpace(getenv("TOKEN_ENC_KEY_B64")),
		AllowedOrigins:       splitList(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		ShopifyWebhookSecret: getenv("SHOPIFY_WEBHOOK_SECRET"),
		ShopifyAPIVersion:    valueOr(getenv("SHOPIFY_API_VERSION"), "2024-04"),
		ShopifyBaseURL:       strings.TrimRight(strings.TrimSpace(getenv("SHOPIFY_BASE_URL")), "/"),
	}

	var err error
	if cfg.SyncInterval, err = durationOr(getenv("SYNC_INTERVAL"), 2*time.Minute); err != nil {
		return nil, fmt.Errorf("SYNC_INTERVAL: %w", err)
	}
	if cfg.SyncHTTPTimeout, err = durationOr(getenv("SYNC_HTTP_TIMEOUT"), 30*time.Second); err != nil {
		return nil, fmt.Errorf("SYNC_HTTP_TIMEOUT: %w", err)
	}
	if cfg.SyncPageSize, err = intOr(getenv("SYNC_PAGE_SIZE"), MaxSyncPageSize); err != nil {
		return nil, fmt.Errorf("SYNC_PAGE_SIZE: %w", err)
	}
	if cfg.SyncConcurrency, err = intOr(getenv("SYNC_CONCURRENCY"), 1); err != nil {
		return nil, fmt.Errorf("SYNC_CONCURRENCY: %w", err)
	}

	if cfg.SyncPageSize < 1 || cfg.SyncPageSize > MaxSyncPageSize {
		cfg.SyncPageSize = MaxSyncPageSize
	}
	if cfg.SyncConcurrency < 1 {
		cfg.SyncConcurrency = 1
	}
	if cfg.SyncInterval <= 0 {
		return nil, errors.New("SYNC_INTERVAL must be positive")
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	switch cfg.DatabaseDriver {
	case "postgres", "pgx":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return time.ParseDuration(strings.TrimSpace(v))
}

func intOr(v string, def int) (int, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
