// Package ratelimit implements a fixed-window request limiter keyed by
// endpoint class and client identifier, backed by a pluggable counter
// store.
package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"notespy/internal/storage"
)

// Endpoint classes
const (
	ClassMatch   = "match"
	ClassSearch  = "search"
	ClassGeneral = "general"
)

// Config defines the limit for one endpoint class
type Config struct {
	// MaxRequests allowed per window
	MaxRequests int
	// Window is the counting interval
	Window time.Duration
	// Message returned to limited clients
	Message string
}

// DefaultConfigs returns the per-class limits. Matching is the expensive
// operation and gets the tightest budget.
func DefaultConfigs() map[string]Config {
	return map[string]Config{
		ClassMatch: {
			MaxRequests: 10,
			Window:      time.Minute,
			Message:     "Too many song matching requests. Please wait a moment before trying again.",
		},
		ClassSearch: {
			MaxRequests: 30,
			Window:      time.Minute,
			Message:     "Too many search requests. Please slow down.",
		},
		ClassGeneral: {
			MaxRequests: 100,
			Window:      time.Minute,
			Message:     "Rate limit exceeded. Please try again later.",
		},
	}
}

// Result is the outcome of one rate limit check
type Result struct {
	Limited   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// Message to return when limited
	Message string
}

// SetHeaders attaches the rate-limit headers to a response. Retry-After
// is included only when the request is limited.
func (r Result) SetHeaders(h http.Header) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(r.Remaining))
	h.Set("X-RateLimit-Reset", r.ResetAt.UTC().Format(time.RFC3339))
	if r.Limited {
		retryAfter := int(time.Until(r.ResetAt).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		h.Set("Retry-After", strconv.Itoa(retryAfter))
	}
}

// Limiter checks requests against per-class fixed-window limits.
type Limiter struct {
	store  storage.CounterStore
	logger *slog.Logger

	mu      sync.RWMutex
	configs map[string]Config
}

// New creates a limiter over the given store. Nil configs fall back to
// the defaults.
func New(store storage.CounterStore, configs map[string]Config, logger *slog.Logger) *Limiter {
	if configs == nil {
		configs = DefaultConfigs()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Limiter{
		store:   store,
		logger:  logger.With("component", "ratelimit"),
		configs: configs,
	}
}

// SetConfigs replaces the per-class limits, used on config reload.
func (l *Limiter) SetConfigs(configs map[string]Config) {
	if configs == nil {
		return
	}
	l.mu.Lock()
	l.configs = configs
	l.mu.Unlock()
}

// Config returns the limit for a class, falling back to the general
// class for unknown names.
func (l *Limiter) Config(class string) Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if cfg, ok := l.configs[class]; ok {
		return cfg
	}
	return l.configs[ClassGeneral]
}

// Check records one request for the class/client pair and reports
// whether it exceeds the class limit. Check never fails: a store error
// is logged and the request is allowed through.
func (l *Limiter) Check(ctx context.Context, class, clientID string) Result {
	cfg := l.Config(class)
	key := class + ":" + clientID

	count, resetAt, err := l.store.Incr(ctx, key, cfg.Window)
	if err != nil {
		l.logger.Warn("counter store unavailable, allowing request",
			"key", key,
			"error", err,
		)
		return Result{
			Limited:   false,
			Limit:     cfg.MaxRequests,
			Remaining: cfg.MaxRequests - 1,
			ResetAt:   time.Now().Add(cfg.Window),
			Message:   cfg.Message,
		}
	}

	remaining := cfg.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Limited:   count > cfg.MaxRequests,
		Limit:     cfg.MaxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
		Message:   cfg.Message,
	}
}
