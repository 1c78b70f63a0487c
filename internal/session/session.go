// Package session defines the contract with the external session store.
//
// The store is an opaque key-value collaborator: it persists per-session
// state verbatim and returns it on the next request. The service is the
// only writer. There is no cross-request locking: two concurrent
// requests for the same session each read, mutate, and write the whole
// state, and the last write wins.
package session

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem is one product's captured entry in the session cart. Name,
// price, and image are snapshotted at add-to-cart time and never
// refreshed from the catalog on later views.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// State is the complete per-session storefront state: the cart and the
// optionally applied coupon code. Only the code is stored, never a
// resolved coupon or a cached discount, so validity is re-evaluated
// against live coupon data on every view.
type State struct {
	Cart       map[string]LineItem `json:"cart"`
	CouponCode string              `json:"coupon_code,omitempty"`
}

// NewState returns an empty session state with an initialized cart map.
func NewState() *State {
	return &State{Cart: make(map[string]LineItem)}
}

// Subtotal returns the sum of captured price times quantity over all
// line items. Zero for an empty cart.
func (s *State) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.Cart {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// ItemCount returns the sum of quantities across all line items. It backs
// the persistent "N items" cart indicator.
func (s *State) ItemCount() int {
	count := 0
	for _, item := range s.Cart {
		count += item.Quantity
	}
	return count
}

// Store persists session state keyed by an opaque session identifier.
type Store interface {
	// Load returns the state for the given session, or a fresh empty state
	// when the session is unknown.
	Load(ctx context.Context, sessionID string) (*State, error)
	// Save persists the state for the given session, replacing any
	// previous state.
	Save(ctx context.Context, sessionID string, state *State) error
}
