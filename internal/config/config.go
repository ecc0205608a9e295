// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration of the server.
type Config struct {
	Addr      string
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration
	LogLevel  string
}

const (
	DefaultAddr     = ":8080"
	DefaultDBPath   = "~/.taskzen/taskzen.db"
	DefaultLogLevel = "info"

	// Matches the development fallback of the original deployment; never
	// use it with a reachable instance.
	devJWTSecret = "dev-taskzen-secret"
)

// Load reads configuration from TASKZEN_* environment variables. A .env
// file in the working directory is loaded first when present.
func Load() Config {
	_ = godotenv.Load()

	ttl := 7 * 24 * time.Hour
	if raw := os.Getenv("TASKZEN_TOKEN_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	return Config{
		Addr:      coalesce(os.Getenv("TASKZEN_ADDR"), DefaultAddr),
		DBPath:    coalesce(os.Getenv("TASKZEN_DB_PATH"), DefaultDBPath),
		JWTSecret: coalesce(os.Getenv("TASKZEN_JWT_SECRET"), devJWTSecret),
		TokenTTL:  ttl,
		LogLevel:  coalesce(os.Getenv("TASKZEN_LOG_LEVEL"), DefaultLogLevel),
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
