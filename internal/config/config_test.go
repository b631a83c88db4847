package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
env: prod
auth:
  access_ttl: 5m
  session_ttl: 96h
  cookie_secure: true
catalog:
  default_page_size: 25
  max_page_size: 50
cleanup:
  interval: 30m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Env != "prod" {
		t.Fatalf("unexpected env: %q", cfg.Env)
	}
	if cfg.Auth.AccessTTL != 5*time.Minute {
		t.Fatalf("unexpected access ttl: %v", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.SessionTTL != 96*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Auth.SessionTTL)
	}
	if !cfg.Auth.CookieSecure {
		t.Fatalf("cookie_secure should be true")
	}
	if cfg.Catalog.DefaultPageSize != 25 {
		t.Fatalf("unexpected default page size: %d", cfg.Catalog.DefaultPageSize)
	}
	if cfg.Catalog.MaxPageSize != 50 {
		t.Fatalf("unexpected max page size: %d", cfg.Catalog.MaxPageSize)
	}
	if cfg.Cleanup.Interval != 30*time.Minute {
		t.Fatalf("unexpected cleanup interval: %v", cfg.Cleanup.Interval)
	}

	// Untouched sections keep defaults.
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.CookieName != "RefreshToken" {
		t.Fatalf("unexpected cookie name: %q", cfg.Auth.CookieName)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("POSTGRES_DSN", "postgres://env:env@db:5432/app")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected jwt secret: %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.SessionTTL != 48*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.CookieSecure {
		t.Fatalf("cookie_secure should be overridden to false")
	}
	if cfg.Postgres.DSN != "postgres://env:env@db:5432/app" {
		t.Fatalf("unexpected postgres dsn: %q", cfg.Postgres.DSN)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("SESSION_TTL", "three days")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid SESSION_TTL")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"JWT_SECRET", "JWT_ACCESS_TTL", "SESSION_TTL", "COOKIE_DOMAIN", "COOKIE_SECURE",
		"CATALOG_CACHE_TTL", "CATALOG_DEFAULT_PAGE_SIZE", "CATALOG_MAX_PAGE_SIZE",
		"CLEANUP_INTERVAL", "CLEANUP_OPEN_TRIP_RETENTION",
	} {
		t.Setenv(key, "")
	}
}
