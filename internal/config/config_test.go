package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKZEN_ADDR", "")
	t.Setenv("TASKZEN_DB_PATH", "")
	t.Setenv("TASKZEN_JWT_SECRET", "")
	t.Setenv("TASKZEN_TOKEN_TTL", "")
	t.Setenv("TASKZEN_LOG_LEVEL", "")

	cfg := Load()
	if cfg.Addr != DefaultAddr {
		t.Errorf("addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("dbPath = %q, want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("tokenTTL = %v, want 7 days", cfg.TokenTTL)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("logLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TASKZEN_ADDR", ":9090")
	t.Setenv("TASKZEN_DB_PATH", "/tmp/test.db")
	t.Setenv("TASKZEN_JWT_SECRET", "prod-secret")
	t.Setenv("TASKZEN_TOKEN_TTL", "12h")
	t.Setenv("TASKZEN_LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Addr != ":9090" || cfg.DBPath != "/tmp/test.db" || cfg.JWTSecret != "prod-secret" {
		t.Errorf("env overrides lost: %+v", cfg)
	}
	if cfg.TokenTTL != 12*time.Hour {
		t.Errorf("tokenTTL = %v, want 12h", cfg.TokenTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadIgnoresInvalidTTL(t *testing.T) {
	t.Setenv("TASKZEN_TOKEN_TTL", "soon")
	if cfg := Load(); cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("tokenTTL = %v, want default for unparseable value", cfg.TokenTTL)
	}

	t.Setenv("TASKZEN_TOKEN_TTL", "-1h")
	if cfg := Load(); cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("tokenTTL = %v, want default for non-positive value", cfg.TokenTTL)
	}
}
