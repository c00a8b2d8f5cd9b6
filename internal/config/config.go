// Package config loads the process configuration once at startup.
//
// The result is an immutable struct passed by reference into each
// component that needs it — there is no global settings object. Values
// come from environment variables, optionally seeded from a .env file
// in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults used when the corresponding environment variable is unset.
const (
	defaultPort           = 8080
	defaultDatabasePath   = "data/pettrack.db"
	defaultSecretKey      = "dev-secret-change-me"
	defaultAccessMinutes  = 15
	defaultRefreshMinutes = 60 * 24 * 7 // 7 days
	defaultFrontendOrigin = "http://localhost:5173"
	minSecretLength       = 16
)

// Config holds everything the server needs to run.
type Config struct {
	Port            int
	DatabasePath    string
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	FrontendOrigin  string
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present; real environment
// variables take precedence over it.
//
// Variables:
//
//	PORT                          listen port
//	DATABASE_PATH                 sqlite database file
//	SECRET_KEY                    JWT signing key (min 16 chars)
//	ACCESS_TOKEN_EXPIRE_MINUTES   access token lifetime
//	REFRESH_TOKEN_EXPIRE_MINUTES  refresh token lifetime
//	FRONTEND_ORIGIN               allowed CORS origin
func Load() (*Config, error) {
	// Missing .env is fine — env vars alone are a complete config.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            defaultPort,
		DatabasePath:    defaultDatabasePath,
		SecretKey:       defaultSecretKey,
		AccessTokenTTL:  defaultAccessMinutes * time.Minute,
		RefreshTokenTTL: defaultRefreshMinutes * time.Minute,
		FrontendOrigin:  defaultFrontendOrigin,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}

	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if len(cfg.SecretKey) < minSecretLength {
		return nil, fmt.Errorf("config: SECRET_KEY must be at least %d characters", minSecretLength)
	}

	accessMin, err := minutesEnv("ACCESS_TOKEN_EXPIRE_MINUTES", defaultAccessMinutes)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = time.Duration(accessMin) * time.Minute

	refreshMin, err := minutesEnv("REFRESH_TOKEN_EXPIRE_MINUTES", defaultRefreshMinutes)
	if err != nil {
		return nil, err
	}
	cfg.RefreshTokenTTL = time.Duration(refreshMin) * time.Minute

	if v := os.Getenv("FRONTEND_ORIGIN"); v != "" {
		cfg.FrontendOrigin = v
	}

	return cfg, nil
}

func minutesEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	minutes, err := strconv.Atoi(v)
	if err != nil || minutes <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", name, v)
	}
	return minutes, nil
}
