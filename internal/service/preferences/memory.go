package preferences

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences for the process lifetime. Used when no
// database is configured; state survives navigation within a session
// but not a server restart.
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.themes[sessionID], nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[sessionID] = theme
	return nil
}
