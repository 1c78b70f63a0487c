// Package review implements product reviews with one-review-per-user
// upsert semantics.
package review

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrInvalidRating is returned when a rating falls outside [1, 5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Review is a customer's rating and comment for a product. Each
// (product, user) pair holds at most one review.
type Review struct {
	ProductID string
	UserID    string
	Rating    int
	Comment   string
	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for reviews.
type Repository interface {
	// Upsert creates or replaces the (product, user) review and reports
	// whether a new row was created.
	Upsert(ctx context.Context, r *Review) (created bool, err error)
	// ListApproved returns up to limit approved reviews for the product,
	// newest first.
	ListApproved(ctx context.Context, productID string, limit int) ([]Review, error)
}

// Service validates and stores reviews.
type Service struct {
	reviews Repository
}

// NewService creates a review Service.
func NewService(reviews Repository) *Service {
	return &Service{reviews: reviews}
}

// Upsert validates the rating and creates or updates the user's review of
// the product. The returned flag reports whether this was a fresh
// creation, which callers use only to pick the confirmation message.
func (s *Service) Upsert(ctx context.Context, userID, productID string, rating int, comment string) (created bool, err error) {
	if rating < 1 || rating > 5 {
		return false, ErrInvalidRating
	}

	created, err = s.reviews.Upsert(ctx, &Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		Approved:  true,
	})
	if err != nil {
		return false, errors.Wrap(err, "upsert review")
	}
	return created, nil
}

// ListApproved returns up to limit approved reviews for the product.
func (s *Service) ListApproved(ctx context.Context, productID string, limit int) ([]Review, error) {
	return s.reviews.ListApproved(ctx, productID, limit)
}
