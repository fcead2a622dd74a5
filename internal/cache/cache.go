// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the freshness window applied when no TTL is configured.
const DefaultTTL = time.Hour

// Entry represents a cached value with its fetch timestamp.
type Entry struct {
	Data      any
	FetchedAt time.Time
}

// Store provides a thread-safe in-memory cache keyed by dataset name.
//
// Unlike an evicting cache, Store never removes entries when they pass
// their TTL. Staleness is discovered lazily through IsValid, and a stale
// entry remains readable through Get so callers can fall back to expired
// data when a refresh fails.
//
// The TTL is mutable at runtime via SetTTL: configuration may carry a
// cache-duration override that takes effect for all subsequent freshness
// checks, including entries stamped under the old TTL. Entries are never
// re-stamped.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	stats   Stats

	// now is swappable for freshness tests.
	now func() time.Time
}

// Stats tracks cache hit/miss counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// New creates a Store with the given TTL. A non-positive TTL selects
// DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a value by key. The value is returned whether or not it
// is still fresh; callers that need freshness must check IsValid first.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	return entry.Data, true
}

// Set stores a value under key, stamping the current time.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Data:      value,
		FetchedAt: s.now(),
	}
}

// IsValid reports whether key holds a value whose age is strictly less
// than the configured TTL.
func (s *Store) IsValid(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[key]
	if !exists {
		return false
	}
	return s.now().Sub(entry.FetchedAt) < s.ttl
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}

// ClearOne removes a single entry by key. No-op for absent keys.
func (s *Store) ClearOne(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// TTL returns the current freshness window.
func (s *Store) TTL() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ttl
}

// SetTTL replaces the freshness window for all subsequent IsValid checks.
// Existing entries keep their original timestamps.
func (s *Store) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = ttl
}

// GetStats returns a snapshot of hit/miss counters.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// SetClock replaces the time source. Tests use this to step through
// freshness boundaries without sleeping.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
