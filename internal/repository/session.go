package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/session"
)

const (
	getSessionSQL = `SELECT state FROM sessions WHERE id = $1`

	saveSessionSQL = `INSERT INTO sessions (id, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`
)

var _ session.Store = (*SessionStore)(nil)

// SessionStore implements session.Store on a PostgreSQL JSONB column.
// State is persisted verbatim; the store knows nothing about carts or
// coupons. There is no per-session locking: concurrent writers for the
// same session are last-write-wins by design.
type SessionStore struct {
	pool *pgxpool.Pool
}

// NewSessionStore returns a SessionStore that uses the given pool.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// Load returns the state for sessionID, or a fresh empty state when the
// session has never been saved.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*session.State, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, getSessionSQL, sessionID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.NewState(), nil
		}
		return nil, fmt.Errorf("loading session %q: %w", sessionID, err)
	}

	state := session.NewState()
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("decoding session %q: %w", sessionID, err)
	}
	if state.Cart == nil {
		state.Cart = make(map[string]session.LineItem)
	}
	return state, nil
}

// Save upserts the state for sessionID.
func (s *SessionStore) Save(ctx context.Context, sessionID string, state *session.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session %q: %w", sessionID, err)
	}

	if _, err := s.pool.Exec(ctx, saveSessionSQL, sessionID, raw); err != nil {
		return fmt.Errorf("saving session %q: %w", sessionID, err)
	}
	return nil
}
