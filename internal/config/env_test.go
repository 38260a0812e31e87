package config

import (
	"testing"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("NOTESPY_SERVER_PORT", "3000")
	t.Setenv("NOTESPY_SERVER_ENVIRONMENT", "development")
	t.Setenv("NOTESPY_UPSTREAM_MATCH_URL", "http://env-match:9000")
	t.Setenv("NOTESPY_RATELIMIT_MATCH_MAXREQUESTS", "20")
	t.Setenv("NOTESPY_CORS_ALLOWEDORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if err := LoadEnv(cfg); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("Expected development, got %q", cfg.Server.Environment)
	}
	if cfg.Upstream.Match.URL != "http://env-match:9000" {
		t.Errorf("Match URL not overridden: %q", cfg.Upstream.Match.URL)
	}
	if cfg.RateLimit.Match.MaxRequests != 20 {
		t.Errorf("Match limit not overridden: %d", cfg.RateLimit.Match.MaxRequests)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("Origins not parsed: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadEnvInvalidInt(t *testing.T) {
	t.Setenv("NOTESPY_SERVER_PORT", "not-a-number")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if err := LoadEnv(cfg); err == nil {
		t.Error("Expected error for invalid int")
	}
}

func TestLoadEnvCreatesRedisSection(t *testing.T) {
	t.Setenv("NOTESPY_STORAGE_REDIS_ADDRESS", "redis-env:6379")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if err := LoadEnv(cfg); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Storage.Redis == nil {
		t.Fatal("Expected redis section to be created")
	}
	if cfg.Storage.Redis.Address != "redis-env:6379" {
		t.Errorf("Wrong redis address: %q", cfg.Storage.Redis.Address)
	}
}

func TestLoadEnvUntouchedWithoutVars(t *testing.T) {
	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if err := LoadEnv(cfg); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port changed without env var: %d", cfg.Server.Port)
	}
	if cfg.Storage.Redis != nil {
		t.Error("Redis section created without env vars")
	}
}
