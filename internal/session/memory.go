package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-faster/errors"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store used in tests and as a fallback when
// no external store is configured. State is round-tripped through JSON so
// the codec behaves identically to the persistent implementation.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Load returns the stored state for sessionID, or a fresh empty state.
func (m *MemoryStore) Load(_ context.Context, sessionID string) (*State, error) {
	m.mu.Lock()
	raw, ok := m.sessions[sessionID]
	m.mu.Unlock()

	if !ok {
		return NewState(), nil
	}

	state := NewState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, errors.Wrap(err, "decode session state")
	}
	if state.Cart == nil {
		state.Cart = make(map[string]LineItem)
	}
	return state, nil
}

// Save replaces the stored state for sessionID.
func (m *MemoryStore) Save(_ context.Context, sessionID string, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encode session state")
	}

	m.mu.Lock()
	m.sessions[sessionID] = raw
	m.mu.Unlock()
	return nil
}
