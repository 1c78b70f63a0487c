package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWishlistRepo struct {
	entries map[string]Entry
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{entries: make(map[string]Entry)}
}

func (m *mockWishlistRepo) Add(_ context.Context, userID, productID string) (bool, error) {
	key := userID + "/" + productID
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = Entry{UserID: userID, ProductID: productID, CreatedAt: time.Now()}
	return true, nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID, productID string) (bool, error) {
	key := userID + "/" + productID
	if _, ok := m.entries[key]; !ok {
		return false, nil
	}
	delete(m.entries, key)
	return true, nil
}

func (m *mockWishlistRepo) List(_ context.Context, userID string) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	svc := NewService(newMockWishlistRepo())

	wishlisted, err := svc.Toggle(t.Context(), "u1", "p1")
	require.NoError(t, err)
	assert.True(t, wishlisted)

	wishlisted, err = svc.Toggle(t.Context(), "u1", "p1")
	require.NoError(t, err)
	assert.False(t, wishlisted)

	entries, err := svc.List(t.Context(), "u1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToggle_PerUser(t *testing.T) {
	svc := NewService(newMockWishlistRepo())

	_, err := svc.Toggle(t.Context(), "u1", "p1")
	require.NoError(t, err)

	// u2 toggling the same product adds to their own list.
	wishlisted, err := svc.Toggle(t.Context(), "u2", "p1")
	require.NoError(t, err)
	assert.True(t, wishlisted)

	entries, err := svc.List(t.Context(), "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
