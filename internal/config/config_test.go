package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"notespy/internal/middleware/ratelimit"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notespy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const minimalYAML = `
server:
  port: 8080
upstream:
  match:
    url: http://localhost:9000
  catalog:
    url: https://itunes.apple.com
`

func TestLoadMinimal(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	// Unspecified sections fall back to embedded defaults
	if cfg.RateLimit.Match.MaxRequests != 10 {
		t.Errorf("Expected default match limit 10, got %d", cfg.RateLimit.Match.MaxRequests)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Expected default memory storage, got %q", cfg.Storage.Type)
	}
	if cfg.Upstream.Catalog.Timeout != 10 {
		t.Errorf("Expected default catalog timeout 10, got %d", cfg.Upstream.Catalog.Timeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  environment: development
upstream:
  match:
    url: http://match.internal:9000
    timeout: 45
  catalog:
    url: https://itunes.apple.com
rateLimit:
  match:
    maxRequests: 5
    window: 30
storage:
  type: redis
  redis:
    address: localhost:6379
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Server.Development() {
		t.Error("Expected development mode")
	}
	if cfg.Upstream.Match.Timeout != 45 {
		t.Errorf("Expected match timeout 45, got %d", cfg.Upstream.Match.Timeout)
	}
	if cfg.Storage.Redis.Address != "localhost:6379" {
		t.Errorf("Wrong redis address: %q", cfg.Storage.Redis.Address)
	}

	configs := cfg.RateLimit.ToLimitConfigs()
	match := configs[ratelimit.ClassMatch]
	if match.MaxRequests != 5 || match.Window != 30*time.Second {
		t.Errorf("Wrong match limit config: %+v", match)
	}
	// Untouched classes keep built-in limits and messages
	search := configs[ratelimit.ClassSearch]
	if search.MaxRequests != 30 || search.Message == "" {
		t.Errorf("Wrong search limit config: %+v", search)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing match URL", func(c *Config) { c.Upstream.Match.URL = "" }, true},
		{"missing catalog URL", func(c *Config) { c.Upstream.Catalog.URL = "" }, true},
		{"redis without address", func(c *Config) {
			c.Storage.Type = "redis"
			c.Storage.Redis = nil
		}, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "etcd" }, true},
		{"negative limit", func(c *Config) { c.RateLimit.Search.MaxRequests = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadDefault()
			if err != nil {
				t.Fatalf("LoadDefault failed: %v", err)
			}
			tt.mutate(cfg)

			err = Validate(cfg)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestCORSConversionDefaults(t *testing.T) {
	var c CORS
	cfg := c.ToCORSConfig()
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("Expected default origins")
	}
	if cfg.PreviewSuffix != ".vercel.app" || cfg.PreviewMarker != "notespy" {
		t.Errorf("Wrong preview rule: %q / %q", cfg.PreviewSuffix, cfg.PreviewMarker)
	}
}

func TestCORSConversionOverride(t *testing.T) {
	c := CORS{
		AllowedOrigins: []string{"https://example.com"},
		PreviewMarker:  "staging",
		MaxAge:         600,
	}
	cfg := c.ToCORSConfig()
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("Origins not overridden: %v", cfg.AllowedOrigins)
	}
	if cfg.PreviewMarker != "staging" {
		t.Errorf("Marker not overridden: %q", cfg.PreviewMarker)
	}
	if cfg.MaxAge != 600 {
		t.Errorf("MaxAge not overridden: %d", cfg.MaxAge)
	}
	// Suffix left unset keeps the default
	if cfg.PreviewSuffix != ".vercel.app" {
		t.Errorf("Suffix changed unexpectedly: %q", cfg.PreviewSuffix)
	}
}

func TestTransportConversion(t *testing.T) {
	tr := Transport{
		MaxIdleConns:    50,
		IdleConnTimeout: 30,
		DialTimeout:     5,
	}
	cfg := tr.ToTransportConfig()
	if cfg.MaxIdleConns != 50 {
		t.Errorf("Expected 50 idle conns, got %d", cfg.MaxIdleConns)
	}
	if cfg.IdleConnTimeout != 30*time.Second {
		t.Errorf("Expected 30s idle timeout, got %v", cfg.IdleConnTimeout)
	}
	if cfg.DialTimeout != 5*time.Second {
		t.Errorf("Expected 5s dial timeout, got %v", cfg.DialTimeout)
	}
	// Unset fields keep defaults
	if cfg.MaxIdleConnsPerHost != 10 {
		t.Errorf("Expected default per-host conns, got %d", cfg.MaxIdleConnsPerHost)
	}
}
