package session

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestState_Subtotal(t *testing.T) {
	state := NewState()
	assert.True(t, state.Subtotal().IsZero())

	state.Cart["p1"] = LineItem{ProductID: "p1", Price: dec("10.00"), Quantity: 2}
	state.Cart["p2"] = LineItem{ProductID: "p2", Price: dec("5.50"), Quantity: 1}

	assert.True(t, state.Subtotal().Equal(dec("25.50")), "got %s", state.Subtotal())
}

func TestState_ItemCount(t *testing.T) {
	state := NewState()
	assert.Zero(t, state.ItemCount())

	state.Cart["p1"] = LineItem{ProductID: "p1", Quantity: 2}
	state.Cart["p2"] = LineItem{ProductID: "p2", Quantity: 3}

	assert.Equal(t, 5, state.ItemCount())
}

func TestMemoryStore_LoadUnknownReturnsFresh(t *testing.T) {
	store := NewMemoryStore()

	state, err := store.Load(t.Context(), "unknown")
	require.NoError(t, err)
	require.NotNil(t, state.Cart)
	assert.Empty(t, state.Cart)
	assert.Empty(t, state.CouponCode)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	state := NewState()
	state.Cart["p1"] = LineItem{
		ProductID: "p1",
		Name:      "Widget",
		Price:     dec("19.99"),
		Quantity:  2,
		Image:     "/images/widget.jpg",
	}
	state.CouponCode = "SAVE10"
	require.NoError(t, store.Save(t.Context(), "s1", state))

	loaded, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", loaded.CouponCode)

	item := loaded.Cart["p1"]
	assert.Equal(t, "Widget", item.Name)
	assert.True(t, item.Price.Equal(dec("19.99")))
	assert.Equal(t, 2, item.Quantity)
}

func TestMemoryStore_SaveIsSnapshot(t *testing.T) {
	store := NewMemoryStore()

	state := NewState()
	state.Cart["p1"] = LineItem{ProductID: "p1", Quantity: 1}
	require.NoError(t, store.Save(t.Context(), "s1", state))

	// Mutating after Save must not leak into the store.
	state.Cart["p2"] = LineItem{ProductID: "p2", Quantity: 1}

	loaded, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.Cart, 1)
}

func TestMemoryStore_SessionsIsolated(t *testing.T) {
	store := NewMemoryStore()

	state := NewState()
	state.CouponCode = "SAVE10"
	require.NoError(t, store.Save(t.Context(), "s1", state))

	other, err := store.Load(t.Context(), "s2")
	require.NoError(t, err)
	assert.Empty(t, other.CouponCode)
}
