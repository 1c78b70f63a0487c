package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/review"
)

const (
	upsertReviewSQL = `INSERT INTO product_reviews (product_id, user_id, rating, comment, approved)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, user_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			updated_at = now()
		RETURNING (xmax = 0) AS created`

	listApprovedReviewsSQL = `SELECT product_id, user_id, rating, comment, approved, created_at, updated_at
		FROM product_reviews
		WHERE product_id = $1 AND approved
		ORDER BY created_at DESC
		LIMIT $2`
)

var _ review.Repository = (*ReviewRepository)(nil)

// ReviewRepository implements review.Repository backed by PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository returns a ReviewRepository that uses the given pool.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Upsert creates or replaces the (product, user) review in one statement.
// The xmax trick distinguishes a fresh insert from a conflict update.
func (r *ReviewRepository) Upsert(ctx context.Context, rv *review.Review) (bool, error) {
	var created bool
	err := r.pool.QueryRow(ctx, upsertReviewSQL,
		rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.Approved,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upserting review for product %q: %w", rv.ProductID, err)
	}
	return created, nil
}

// ListApproved returns up to limit approved reviews, newest first.
func (r *ReviewRepository) ListApproved(ctx context.Context, productID string, limit int) ([]review.Review, error) {
	rows, err := r.pool.Query(ctx, listApprovedReviewsSQL, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reviews for product %q: %w", productID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (review.Review, error) {
		var rv review.Review
		err := row.Scan(&rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment,
			&rv.Approved, &rv.CreatedAt, &rv.UpdatedAt)
		return rv, err
	})
}
