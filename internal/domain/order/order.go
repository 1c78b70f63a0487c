// Package order materializes session carts into persisted orders.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Pending is initial;
// completed and cancelled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions enumerates the allowed status moves.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether an order may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Order is a persisted order with its discount snapshot. TotalAmount is
// the subtotal before discount; the final payable amount is
// TotalAmount - DiscountAmount. Items are immutable after creation.
type Order struct {
	ID             string
	UserID         string
	FirstName      string
	LastName       string
	Email          string
	Address        string
	City           string
	PostalCode     string
	Status         Status
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	CouponCode     string
	Items          []Item
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Item is a single order line. Name and Price are snapshots copied from
// the cart at checkout, never re-read from the catalog.
type Item struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Cost returns price times quantity for this line.
func (i Item) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Repository defines persistence operations for orders.
type Repository interface {
	// Create persists the order and all of its items atomically: a failure
	// on any item (for example a product reference that vanished between
	// cart time and checkout) must leave no partial order behind.
	Create(ctx context.Context, o *Order) error
	// GetByID returns an order with its items.
	GetByID(ctx context.Context, id string) (*Order, error)
	// ListByUser returns a user's orders, newest first, without items.
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}
