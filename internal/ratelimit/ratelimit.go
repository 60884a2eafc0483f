// Package ratelimit holds the per-IP request counters behind a store
// interface, so a single instance can run on the in-memory map and a
// multi-instance deployment can point every replica at the same Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore is a fixed-window counter: Increment bumps the key's counter,
// starting a new window when none is active, and returns the count within the
// current window. Increment-and-check must be atomic per key.
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	// Decrement refunds one slot; used to not count successful auth
	// requests against the window.
	Decrement(ctx context.Context, key string) error
}

// порог, после которого Increment попутно выметает истёкшие окна
const sweepThreshold = 4096

type window struct {
	count   int64
	resetAt time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, d time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.windows) > sweepThreshold {
		s.sweepLocked(now)
	}

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		s.windows[key] = &window{count: 1, resetAt: now.Add(d)}
		return 1, nil
	}
	w.count++
	return w.count, nil
}

func (s *MemoryStore) Decrement(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || s.now().After(w.resetAt) || w.count == 0 {
		return nil
	}
	w.count--
	return nil
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
