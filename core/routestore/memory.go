package routestore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	route     RouteConfig
	expiresAt time.Time
}

// Memory is a process-local Store for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) *RouteConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.live(key)
	if !ok {
		return nil
	}
	route := entry.route
	return &route
}

func (m *Memory) Exists(_ context.Context, key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.live(key)
	return ok
}

func (m *Memory) SetMany(_ context.Context, entries map[string]RouteConfig, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt := m.now().Add(ttl)
	for key, route := range entries {
		m.entries[key] = memoryEntry{route: route, expiresAt: expiresAt}
	}
	return nil
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for key := range m.entries {
		if _, ok := m.live(key); ok {
			n++
		}
	}
	return n
}

func (m *Memory) live(key string) (memoryEntry, bool) {
	entry, ok := m.entries[key]
	if !ok || m.now().After(entry.expiresAt) {
		return memoryEntry{}, false
	}
	return entry, true
}
