package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORAGE_DRIVER", "CART_KEY", "CORS_ALLOWED_ORIGINS", "SESSION_IDLE_TTL_SECONDS", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}
	cfg := FromEnv()
	if cfg.HTTPAddr != ":8080" || cfg.StorageDriver != DriverFile || cfg.CartKey != "silkspeed-cart" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Fatalf("unexpected idle ttl %s", cfg.SessionIdleTTL)
	}
	if cfg.CookieSecure {
		t.Fatalf("secure cookie should default to false")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("CART_KEY", "other-cart")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, ,https://admin.example.com")
	t.Setenv("SESSION_IDLE_TTL_SECONDS", "90")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := FromEnv()
	if cfg.StorageDriver != DriverRedis || cfg.CartKey != "other-cart" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if !cfg.CookieSecure {
		t.Fatalf("expected secure cookie from COOKIE_SECURE")
	}
	if cfg.SessionIdleTTL != 90*time.Second {
		t.Fatalf("unexpected idle ttl %s", cfg.SessionIdleTTL)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected default shutdown timeout on bad input, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SILKSPEED_TEST_CART_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("SILKSPEED_TEST_CART_KEY", "")
	os.Unsetenv("SILKSPEED_TEST_CART_KEY")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("SILKSPEED_TEST_CART_KEY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
