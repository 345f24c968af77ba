package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL  = "artivty.db"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAccessTTL = "15m"
	defaultRefreshTTL   = "168h"
	defaultListenAddr   = ":8080"
	defaultMediaDir     = "./uploads"
	defaultMediaBaseURL = "/static/uploads"
)

type Config struct {
	AppEnv       string
	DatabaseURL  string
	JWTSecret    string
	JWTAccessTTL time.Duration
	RefreshTTL   time.Duration
	ListenAddr   string
	MediaDir     string
	MediaBaseURL string
}

// Load reads configuration from the environment, with a best-effort .env
// file load for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.ListenAddr = getEnv("LISTEN_ADDR", defaultListenAddr)
	cfg.MediaDir = getEnv("MEDIA_DIR", defaultMediaDir)
	cfg.MediaBaseURL = getEnv("MEDIA_BASE_URL", defaultMediaBaseURL)

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTTL, err = parseDurationEnv("REFRESH_TTL", defaultRefreshTTL)
	if err != nil {
		return nil, err
	}

	if cfg.AppEnv == "prod" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in prod")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
	}
	return d, nil
}
