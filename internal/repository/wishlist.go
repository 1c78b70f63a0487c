package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/wishlist"
)

const (
	addWishlistSQL = `INSERT INTO wishlists (user_id, product_id)
		VALUES ($1, $2) ON CONFLICT (user_id, product_id) DO NOTHING`

	removeWishlistSQL = `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`

	listWishlistSQL = `SELECT user_id, product_id, created_at
		FROM wishlists WHERE user_id = $1 ORDER BY created_at DESC`
)

var _ wishlist.Repository = (*WishlistRepository)(nil)

// WishlistRepository implements wishlist.Repository backed by PostgreSQL.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

// NewWishlistRepository returns a WishlistRepository that uses the given pool.
func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Add inserts the entry; a duplicate insert is a no-op reported as false.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, addWishlistSQL, userID, productID)
	if err != nil {
		return false, fmt.Errorf("adding wishlist entry %q/%q: %w", userID, productID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// Remove deletes the entry, reporting whether one existed.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, removeWishlistSQL, userID, productID)
	if err != nil {
		return false, fmt.Errorf("removing wishlist entry %q/%q: %w", userID, productID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List returns the user's entries, newest first.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]wishlist.Entry, error) {
	rows, err := r.pool.Query(ctx, listWishlistSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wishlist for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (wishlist.Entry, error) {
		var e wishlist.Entry
		err := row.Scan(&e.UserID, &e.ProductID, &e.CreatedAt)
		return e, err
	})
}
