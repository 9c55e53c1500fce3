package cache

import (
	"context"
	"sync"
	"time"

	"github.com/craftly/craftd/internal/observability/metrics"
)

type entry struct {
	val       []byte
	expiresAt time.Time
}

// Memory is an in-process Store. Entries expire lazily on read; Sweep
// reclaims expired entries in bulk and is typically driven by a janitor
// loop so the map does not grow without bound between reads.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or a miss if absent or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || m.now().After(e.expiresAt) {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return e.val, true
}

// Set stores val under key until ttl elapses. A non-positive ttl is a no-op.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = entry{val: val, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Sweep removes all expired entries and returns how many were reclaimed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of live plus not-yet-swept entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
