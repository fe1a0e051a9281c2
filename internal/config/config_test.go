package config

import (
	"os"
	"testing"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when JWT_SECRET is absent")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	for _, key := range []string{"PORT", "DATABASE_PATH", "PASSWORD_SECRET", "REDIS_ADDR", "ALLOWED_ORIGIN"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.DatabasePath != "./shophub.db" {
		t.Errorf("expected default database path, got %q", cfg.DatabasePath)
	}
	if cfg.PasswordSecret != "default-secret-key" {
		t.Errorf("expected default pepper, got %q", cfg.PasswordSecret)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("expected empty Redis address, got %q", cfg.RedisAddr)
	}
}
