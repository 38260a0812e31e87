// Package storage defines the counter store behind the rate limiter and
// its configuration. Implementations live in the memory and redis
// subpackages.
package storage

import (
	"context"
	"time"
)

// CounterStore is a fixed-window request counter keyed by client
// identifier and endpoint class.
type CounterStore interface {
	// Incr records one request for key and returns the count observed
	// within the current window together with the window's reset time.
	// The first request in a window (or after expiry) yields count 1 and
	// starts a fresh window.
	Incr(ctx context.Context, key string, window time.Duration) (count int, resetAt time.Time, err error)

	// Reset removes the counter for the given key
	Reset(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// Config defines common configuration for counter stores
type Config struct {
	// SweepInterval is the minimum time between expiry sweeps
	SweepInterval time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		SweepInterval: 5 * time.Minute,
	}
}
