package config

import (
	"fmt"
	"os"

	"notespy/pkg/errors"

	"gopkg.in/yaml.v3"
)

// Loader loads configuration from file
type Loader struct {
	path       string
	envEnabled bool
}

// NewLoader creates a config loader
func NewLoader(path string) *Loader {
	return &Loader{
		path:       path,
		envEnabled: true,
	}
}

// WithEnvVars enables or disables environment variable loading
func (l *Loader) WithEnvVars(enabled bool) *Loader {
	l.envEnabled = enabled
	return l
}

// Load loads the configuration
func (l *Loader) Load() (*Config, error) {
	cfg, err := LoadDefault()
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to load default config").WithCause(err)
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to read config file").WithCause(err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewError(errors.ErrorTypeInternal, "failed to parse config").WithCause(err)
	}

	if l.envEnabled {
		if err := LoadEnv(cfg); err != nil {
			return nil, errors.NewError(errors.ErrorTypeInternal, "failed to load env vars").WithCause(err)
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.NewError(errors.ErrorTypeBadRequest, "invalid configuration").WithCause(err)
	}

	return cfg, nil
}

// Load reads, overlays, and validates the configuration at path.
func Load(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Validate checks the configuration for usable values.
func Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.Upstream.Match.URL == "" {
		return fmt.Errorf("match upstream URL is required")
	}
	if cfg.Upstream.Catalog.URL == "" {
		return fmt.Errorf("catalog upstream URL is required")
	}

	switch cfg.Storage.Type {
	case "", "memory":
	case "redis":
		if cfg.Storage.Redis == nil || cfg.Storage.Redis.Address == "" {
			return fmt.Errorf("redis storage requires an address")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", cfg.Storage.Type)
	}

	for class, cl := range map[string]ClassLimit{
		"match":   cfg.RateLimit.Match,
		"search":  cfg.RateLimit.Search,
		"general": cfg.RateLimit.General,
	} {
		if cl.MaxRequests < 0 {
			return fmt.Errorf("rate limit %s: maxRequests must not be negative", class)
		}
		if cl.Window < 0 {
			return fmt.Errorf("rate limit %s: window must not be negative", class)
		}
	}

	return nil
}
