// Package cart implements the session-scoped shopping cart: stock-bound
// add/update/remove mutations over snapshot-priced line items, and the
// cart view with live coupon discounting.
package cart

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/session"
)

// ErrOutOfStock is returned when adding a product whose stock is zero.
var ErrOutOfStock = errors.New("product is out of stock")

// InsufficientStockError indicates a requested quantity exceeds the
// product's live stock. Available carries the stock figure for the
// user-facing message.
type InsufficientStockError struct {
	ProductID string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items available in stock for product %s", e.Available, e.ProductID)
}

// Item is one rendered cart line: the captured snapshot plus the line
// total and the product's live stock.
type Item struct {
	session.LineItem
	LineTotal decimal.Decimal
	// Stock is the product's current stock, re-read from the catalog for
	// display. The captured price and name are NOT refreshed.
	Stock int
}

// View is the fully priced cart as shown to the customer: line items,
// subtotal, the live-resolved coupon discount, and the final total.
type View struct {
	Items      []Item
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	FinalTotal decimal.Decimal
	ItemCount  int
	// Coupon is the currently applied coupon, nil when none. It may be
	// present with a zero Discount when it has become invalid.
	Coupon *coupon.Coupon
}
