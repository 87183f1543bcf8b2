package browse

import (
	"log/slog"
	"sync"
)

// Manager hands out one Browser per browsing session for one view,
// preserving browse state across page renders the way the original
// per-tab stores did.
type Manager struct {
	src      Source
	root     string
	mode     Mode
	pageSize int
	logger   *slog.Logger

	mu       sync.Mutex
	browsers map[string]*Browser
}

func NewManager(src Source, root string, mode Mode, pageSize int, logger *slog.Logger) *Manager {
	return &Manager{
		src:      src,
		root:     root,
		mode:     mode,
		pageSize: pageSize,
		logger:   logger,
		browsers: make(map[string]*Browser),
	}
}

// Get returns the session's browser, creating it on first use.
func (m *Manager) Get(sessionID string) *Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.browsers[sessionID]; ok {
		return b
	}
	b := New(m.src, m.root, m.mode, m.pageSize, m.logger)
	m.browsers[sessionID] = b
	return b
}

// Drop discards a session's browser, used on logout.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.browsers, sessionID)
}
