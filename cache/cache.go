package cache

import (
	"sync"
	"time"
)

// Cache is the capability handed to code that wants read-through caching.
// Staleness is bounded by the TTL passed to Set; every mutation site is
// expected to call Invalidate for the keys it touches.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Invalidate(key string)
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Memory is an in-process Cache. Expired entries are dropped lazily on Get.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.Invalidate(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}
