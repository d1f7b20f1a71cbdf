package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryCache created by NewMemoryCache.
const DefaultMaxEntries = 1024

type entry struct {
	value   string
	expires time.Time
	seq     uint64
}

// MemoryCache is an in-process Cache holding at most maxEntries values.
// When full, expired entries are swept first, then the oldest write is evicted.
type MemoryCache struct {
	mu         sync.Mutex
	items      map[string]entry
	maxEntries int
	seq        uint64
	now        func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithLimit(DefaultMaxEntries)
}

// NewMemoryCacheWithLimit returns a cache bounded to maxEntries. Values below 1 use DefaultMaxEntries.
func NewMemoryCacheWithLimit(maxEntries int) *MemoryCache {
	if maxEntries < 1 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{items: make(map[string]entry), maxEntries: maxEntries, now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return "", false
	}
	if m.expired(e, m.now()) {
		delete(m.items, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.items[key]; !exists && len(m.items) >= m.maxEntries {
		m.sweep(now)
		if len(m.items) >= m.maxEntries {
			m.evictOldest()
		}
	}

	m.seq++
	e := entry{value: value, seq: m.seq}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.items[key] = e
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryCache) expired(e entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (m *MemoryCache) sweep(now time.Time) {
	for k, e := range m.items {
		if m.expired(e, now) {
			delete(m.items, k)
		}
	}
}

func (m *MemoryCache) evictOldest() {
	var (
		oldestKey string
		oldestSeq uint64
		found     bool
	)
	for k, e := range m.items {
		if !found || e.seq < oldestSeq {
			oldestKey, oldestSeq, found = k, e.seq, true
		}
	}
	if found {
		delete(m.items, oldestKey)
	}
}
