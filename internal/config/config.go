package config

import (
	"time"

	"notespy/internal/middleware/cors"
	"notespy/internal/middleware/ratelimit"
	"notespy/internal/upstream"
)

// Config holds the full service configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Upstream  Upstream  `yaml:"upstream"`
	CORS      CORS      `yaml:"cors"`
	RateLimit RateLimit `yaml:"rateLimit"`
	Storage   Storage   `yaml:"storage"`
}

// Server configuration
type Server struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	Environment  string `yaml:"environment"`
}

// Development reports whether the server runs in development mode.
func (s *Server) Development() bool {
	return s.Environment == "development"
}

// Upstream configuration for the match backend and the catalog API
type Upstream struct {
	Match     MatchUpstream   `yaml:"match"`
	Catalog   CatalogUpstream `yaml:"catalog"`
	Transport Transport       `yaml:"transport"`
}

// MatchUpstream configuration
type MatchUpstream struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

// CatalogUpstream configuration
type CatalogUpstream struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

// Transport configuration for upstream HTTP connections
type Transport struct {
	MaxIdleConns          int  `yaml:"maxIdleConns"`
	MaxIdleConnsPerHost   int  `yaml:"maxIdleConnsPerHost"`
	IdleConnTimeout       int  `yaml:"idleConnTimeout"`
	DialTimeout           int  `yaml:"dialTimeout"`
	ResponseHeaderTimeout int  `yaml:"responseHeaderTimeout"`
	KeepAlive             bool `yaml:"keepAlive"`
}

// CORS configuration
type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
	PreviewSuffix  string   `yaml:"previewSuffix"`
	PreviewMarker  string   `yaml:"previewMarker"`
	MaxAge         int      `yaml:"maxAge"`
}

// RateLimit configuration per request class
type RateLimit struct {
	Match   ClassLimit `yaml:"match"`
	Search  ClassLimit `yaml:"search"`
	General ClassLimit `yaml:"general"`
}

// ClassLimit configures one request class
type ClassLimit struct {
	MaxRequests int `yaml:"maxRequests"`
	Window      int `yaml:"window"`
}

// Storage configuration for the rate-limit counter store
type Storage struct {
	Type          string `yaml:"type"`
	SweepInterval int    `yaml:"sweepInterval"`
	Redis         *Redis `yaml:"redis,omitempty"`
}

// Redis configuration
type Redis struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ToCORSConfig converts to the middleware's CORS configuration,
// filling unset fields from the built-in defaults.
func (c *CORS) ToCORSConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(c.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	if c.PreviewSuffix != "" {
		cfg.PreviewSuffix = c.PreviewSuffix
	}
	if c.PreviewMarker != "" {
		cfg.PreviewMarker = c.PreviewMarker
	}
	if c.MaxAge > 0 {
		cfg.MaxAge = c.MaxAge
	}
	return cfg
}

// ToLimitConfigs converts to the rate limiter's per-class configuration.
// Unset classes keep their built-in limits.
func (r *RateLimit) ToLimitConfigs() map[string]ratelimit.Config {
	configs := ratelimit.DefaultConfigs()
	apply := func(class string, cl ClassLimit) {
		cfg := configs[class]
		if cl.MaxRequests > 0 {
			cfg.MaxRequests = cl.MaxRequests
		}
		if cl.Window > 0 {
			cfg.Window = time.Duration(cl.Window) * time.Second
		}
		configs[class] = cfg
	}
	apply(ratelimit.ClassMatch, r.Match)
	apply(ratelimit.ClassSearch, r.Search)
	apply(ratelimit.ClassGeneral, r.General)
	return configs
}

// ToTransportConfig converts to the upstream transport configuration.
func (t *Transport) ToTransportConfig() upstream.TransportConfig {
	cfg := upstream.DefaultTransportConfig()
	if t.MaxIdleConns > 0 {
		cfg.MaxIdleConns = t.MaxIdleConns
	}
	if t.MaxIdleConnsPerHost > 0 {
		cfg.MaxIdleConnsPerHost = t.MaxIdleConnsPerHost
	}
	if t.IdleConnTimeout > 0 {
		cfg.IdleConnTimeout = time.Duration(t.IdleConnTimeout) * time.Second
	}
	if t.DialTimeout > 0 {
		cfg.DialTimeout = time.Duration(t.DialTimeout) * time.Second
	}
	if t.ResponseHeaderTimeout > 0 {
		cfg.ResponseHeaderTimeout = time.Duration(t.ResponseHeaderTimeout) * time.Second
	}
	return cfg
}
