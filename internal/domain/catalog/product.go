// Package catalog defines the product and category domain types and the
// read-side repository the storefront browses with.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Sort orders for product listings.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortRating    = "rating"
)

// Product is a catalog item. AvgRating and ReviewCount are derived from
// approved reviews at query time, not stored on the product row.
type Product struct {
	ID          string
	Name        string
	Slug        string
	CategoryID  string
	Description string
	Price       decimal.Decimal
	Image       string
	Stock       int
	Available   bool
	AvgRating   float64
	ReviewCount int
	CreatedAt   time.Time
}

// Category groups products for browsing.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
}

// ListParams filters and orders a product listing. Zero values mean
// "no filter"; an unrecognized Sort falls back to newest-first.
type ListParams struct {
	CategorySlug string
	Search       string
	Sort         string
}

// Repository defines read operations over the catalog.
type Repository interface {
	// List returns available products matching params.
	List(ctx context.Context, params ListParams) ([]Product, error)
	// GetByID returns a product by ID regardless of availability.
	// Returns ErrNotFound when no such product exists.
	GetByID(ctx context.Context, id string) (*Product, error)
	// GetBySlug returns an available product by its URL slug.
	// Returns ErrNotFound when no such product exists or it is unavailable.
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	// GetByIDs returns the products matching any of ids; missing IDs are
	// simply absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	// Categories returns all categories ordered by name.
	Categories(ctx context.Context) ([]Category, error)
}
