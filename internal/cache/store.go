// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/puzpuzpuz/xsync/v3"
)

// DefaultWindow is how long an entry is served after it was stored.
const DefaultWindow = 30 * time.Second

// Entry is a single cached value and the time it was stored.
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

// Store maps cache keys to entries. All methods are safe for concurrent use.
type Store[V any] struct {
	entries *xsync.MapOf[string, Entry[V]]
	window  time.Duration
	now     func() time.Time

	// mu orders Clear against conditional puts so a put that raced a Clear can
	// be detected through the generation counter.
	mu  sync.RWMutex
	gen atomic.Uint64
}

// Option configures a Store.
type Option func(*options)

type options struct {
	window time.Duration
	now    func() time.Time
}

// WithWindow overrides DefaultWindow. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewStore returns an empty Store.
func NewStore[V any](opts ...Option) *Store[V] {
	o := options{
		window: DefaultWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[V]{
		entries: xsync.NewMapOf[string, Entry[V]](),
		window:  o.window,
		now:     o.now,
	}
}

// Get returns the value stored under key if it is still fresh. A stale entry
// is removed and reported as absent.
func (s *Store[V]) Get(key string) (V, bool) {
	var zero V

	e, ok := s.entries.Load(key)
	if !ok {
		return zero, false
	}

	if s.fresh(e) {
		return e.Value, true
	}

	s.dropIfStale(key)
	return zero, false
}

// dropIfStale deletes key only if its entry is still stale. A concurrent Put
// may have replaced it since it was read.
func (s *Store[V]) dropIfStale(key string) bool {
	var expired bool
	s.entries.Compute(key, func(old Entry[V], loaded bool) (Entry[V], bool) {
		if !loaded {
			return old, true
		}
		expired = !s.fresh(old)
		return old, expired
	})
	if expired {
		log.Debugf("cache expired: %s", key)
	}
	return expired
}

// Put stores value under key, replacing any existing entry.
func (s *Store[V]) Put(key string, value V) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.store(key, value)
}

// PutIf stores value under key only if no Clear happened since gen was read
// from Generation. It reports whether the value was stored.
func (s *Store[V]) PutIf(gen uint64, key string, value V) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.gen.Load() != gen {
		return false
	}
	s.store(key, value)
	return true
}

// Clear removes every entry. Clearing an empty store is a no-op apart from
// advancing the generation.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.entries.Size()
	s.entries.Clear()
	s.gen.Add(1)
	log.Debugf("cache cleared: %d entries", n)
}

// Generation returns a counter that advances on every Clear.
func (s *Store[V]) Generation() uint64 {
	return s.gen.Load()
}

// Len returns the number of entries, including ones that are stale but have
// not been read since they expired.
func (s *Store[V]) Len() int {
	return s.entries.Size()
}

// Window returns the freshness window.
func (s *Store[V]) Window() time.Duration {
	return s.window
}

func (s *Store[V]) store(key string, value V) {
	s.entries.Store(key, Entry[V]{Value: value, StoredAt: s.now()})
}

func (s *Store[V]) fresh(e Entry[V]) bool {
	return s.now().Sub(e.StoredAt) < s.window
}
