// Package wishlist implements presence-only wishlist entries with
// toggle semantics.
package wishlist

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Entry marks a product as wishlisted by a user. The (user, product)
// pair is unique; there is no other payload.
type Entry struct {
	UserID    string
	ProductID string
	CreatedAt time.Time
}

// Repository defines persistence operations for wishlist entries.
type Repository interface {
	// Add inserts the entry, reporting false when it already existed.
	// Duplicate inserts must not fail.
	Add(ctx context.Context, userID, productID string) (added bool, err error)
	// Remove deletes the entry, reporting whether one existed.
	Remove(ctx context.Context, userID, productID string) (removed bool, err error)
	// List returns the user's entries, newest first.
	List(ctx context.Context, userID string) ([]Entry, error)
}

// Service toggles and lists wishlist entries.
type Service struct {
	entries Repository
}

// NewService creates a wishlist Service.
func NewService(entries Repository) *Service {
	return &Service{entries: entries}
}

// Toggle flips the wishlist state for (user, product): an existing entry
// is removed, a missing one is created. It reports whether the product is
// wishlisted after the call.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (wishlisted bool, err error) {
	removed, err := s.entries.Remove(ctx, userID, productID)
	if err != nil {
		return false, errors.Wrap(err, "remove wishlist entry")
	}
	if removed {
		return false, nil
	}

	// Not present: create it. A concurrent toggle that inserted first
	// makes Add a no-op, which still leaves the product wishlisted.
	if _, err := s.entries.Add(ctx, userID, productID); err != nil {
		return false, errors.Wrap(err, "add wishlist entry")
	}
	return true, nil
}

// List returns the user's wishlist entries, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	return s.entries.List(ctx, userID)
}
