// Package coupon implements coupon validation and discount calculation.
package coupon

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported coupon discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

var (
	// ErrNotFound is returned when no coupon exists for a code.
	ErrNotFound = errors.New("coupon not found")
	// ErrInvalid is returned when a coupon exists but is inactive, expired,
	// or has exhausted its usage limit.
	ErrInvalid = errors.New("coupon is not valid or has expired")
	// ErrMalformedCode is returned when a submitted code fails basic shape
	// validation before any lookup is attempted.
	ErrMalformedCode = errors.New("malformed coupon code")
)

var hundred = decimal.NewFromInt(100)

// Coupon defines a discount rule and its eligibility constraints.
//
// UsedCount is monotonically non-decreasing. Nothing in the checkout path
// increments it; see the open-questions section of DESIGN.md.
type Coupon struct {
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MinPurchase   decimal.Decimal
	// MaxDiscount caps a percentage discount when non-nil.
	MaxDiscount *decimal.Decimal
	ValidFrom   time.Time
	ValidTo     time.Time
	Active      bool
	// UsageLimit of zero means unlimited.
	UsageLimit int
	UsedCount  int
}

// IsValid reports whether the coupon can be applied at the given instant:
// it must be active, under its usage limit, and inside the inclusive
// [ValidFrom, ValidTo] window. Pure, no side effects.
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// CalculateDiscount returns the discount for the given subtotal, rounded
// half-up to 2 decimal places. It returns zero when the coupon is not
// valid at now or the subtotal is below the minimum purchase.
//
// A percentage discount is subtotal * value / 100, capped at MaxDiscount
// when set. A fixed discount never exceeds the subtotal itself, so the
// final total cannot go negative.
func (c *Coupon) CalculateDiscount(amount decimal.Decimal, now time.Time) decimal.Decimal {
	if !c.IsValid(now) || amount.LessThan(c.MinPurchase) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = amount.Mul(c.DiscountValue).Div(hundred)
		if c.MaxDiscount != nil {
			discount = decimal.Min(discount, *c.MaxDiscount)
		}
	case DiscountFixed:
		discount = decimal.Min(c.DiscountValue, amount)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount.Round(2)
}

// Repository provides lookup of coupons by their exact code.
type Repository interface {
	// FindByCode returns the coupon for the given code or ErrNotFound.
	FindByCode(ctx context.Context, code string) (*Coupon, error)
}
