package cart

import (
	"sync"

	"github.com/rs/zerolog"
)

// Manager owns one cart engine per authenticated user. Engines are created
// on first access and reset when the identity signs out.
type Manager struct {
	mu      sync.Mutex
	engines map[string]*Engine
	store   Store
	logger  zerolog.Logger
}

// NewManager creates a cart manager backed by the given durable store.
func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		engines: make(map[string]*Engine),
		store:   store,
		logger:  logger,
	}
}

// Get returns the user's cart engine, creating and cache-warming it on first
// access.
func (m *Manager) Get(userID string) *Engine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.engines[userID]; ok {
		return e
	}

	e := NewEngine(userID, m.store, m.logger)
	m.engines[userID] = e
	return e
}

// Reset clears a user's cart and drops the engine, for sign-out or identity
// change. Both in-memory state and the cache entry are invalidated.
func (m *Manager) Reset(userID string) {
	m.mu.Lock()
	e, ok := m.engines[userID]
	if ok {
		delete(m.engines, userID)
	}
	m.mu.Unlock()

	if ok {
		e.Clear()
	}
}
