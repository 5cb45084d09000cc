package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":3000" {
		t.Errorf("HTTP.Addr = %q, want :3000", cfg.HTTP.Addr)
	}
	if cfg.Auth.CookieName != "lms_session" {
		t.Errorf("Auth.CookieName = %q, want lms_session", cfg.Auth.CookieName)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 24h", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.SeedAdmin != "admin" {
		t.Errorf("Auth.SeedAdmin = %q, want admin", cfg.Auth.SeedAdmin)
	}
	if cfg.Backend.BaseURL != "http://localhost:8080/api" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Redis.URI != "localhost:6379" {
		t.Errorf("Redis.URI = %q", cfg.Redis.URI)
	}
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SEED_ADMIN_USERNAME", "root")
	t.Setenv("BACKEND_BASE_URL", "http://backend:8080/api/")
	t.Setenv("REDIS_URI", "redis:6379")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Auth.CookieName != "sid" {
		t.Errorf("Auth.CookieName = %q", cfg.Auth.CookieName)
	}
	if cfg.Auth.SessionTTL != time.Hour {
		t.Errorf("Auth.SessionTTL = %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.SeedAdmin != "root" {
		t.Errorf("Auth.SeedAdmin = %q", cfg.Auth.SeedAdmin)
	}
	// Sanitize trims the trailing slash so gateway paths join cleanly.
	if cfg.Backend.BaseURL != "http://backend:8080/api" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Redis.URI != "redis:6379" {
		t.Errorf("Redis.URI = %q", cfg.Redis.URI)
	}
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{
		Auth:    AuthConfig{SessionTTL: -time.Minute},
		Backend: BackendConfig{BaseURL: "  http://x/  ", Timeout: 0},
	}
	cfg.Sanitize()

	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h fallback", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.CookieName != "lms_session" {
		t.Errorf("CookieName = %q, want fallback", cfg.Auth.CookieName)
	}
	if cfg.Backend.BaseURL != "http://x" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
}

func TestDetectDevMode_NodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("IsDev = false, want true with NODE_ENV=development")
	}
}
