// Package memory implements the counter store with a process-local map.
// Suitable for single-instance deployments; use the redis store when
// running multiple replicas.
package memory

import (
	"context"
	"sync"
	"time"

	"notespy/internal/storage"
)

// entry is one fixed-window counter. Exactly one entry exists per key.
type entry struct {
	count   int
	resetAt time.Time
}

// Store implements storage.CounterStore using in-memory storage.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	config    *storage.Config
	lastSweep time.Time
	now       func() time.Time
}

// NewStore creates a new memory store
func NewStore(config *storage.Config) *Store {
	if config == nil {
		config = storage.DefaultConfig()
	}

	return &Store{
		entries:   make(map[string]*entry),
		config:    config,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Incr records one request for key within the current window.
func (s *Store) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	e, ok := s.entries[key]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(window)}
		s.entries[key] = e
		return 1, e.resetAt, nil
	}

	e.count++
	return e.count, e.resetAt, nil
}

// Reset removes the counter for the given key
func (s *Store) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close closes the store
func (s *Store) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked drops expired entries, at most once per sweep interval.
// Sweeps run lazily on Incr so no background timer is needed; memory
// stays bounded by the number of distinct active keys.
func (s *Store) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.config.SweepInterval {
		return
	}
	s.lastSweep = now

	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
		}
	}
}
