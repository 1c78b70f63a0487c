package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validWindow(now time.Time) (time.Time, time.Time) {
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestCoupon_IsValid(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from, to := validWindow(now)

	tests := []struct {
		name   string
		coupon Coupon
		want   bool
	}{
		{
			name:   "active inside window",
			coupon: Coupon{Active: true, ValidFrom: from, ValidTo: to},
			want:   true,
		},
		{
			name:   "inactive",
			coupon: Coupon{Active: false, ValidFrom: from, ValidTo: to},
			want:   false,
		},
		{
			name:   "not yet valid",
			coupon: Coupon{Active: true, ValidFrom: now.Add(time.Hour), ValidTo: to},
			want:   false,
		},
		{
			name:   "expired",
			coupon: Coupon{Active: true, ValidFrom: from, ValidTo: now.Add(-time.Hour)},
			want:   false,
		},
		{
			name:   "window boundaries are inclusive",
			coupon: Coupon{Active: true, ValidFrom: now, ValidTo: now},
			want:   true,
		},
		{
			name:   "usage limit exhausted",
			coupon: Coupon{Active: true, ValidFrom: from, ValidTo: to, UsageLimit: 5, UsedCount: 5},
			want:   false,
		},
		{
			name:   "usage limit not reached",
			coupon: Coupon{Active: true, ValidFrom: from, ValidTo: to, UsageLimit: 5, UsedCount: 4},
			want:   true,
		},
		{
			name:   "zero usage limit means unlimited",
			coupon: Coupon{Active: true, ValidFrom: from, ValidTo: to, UsageLimit: 0, UsedCount: 1000000},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.IsValid(now))
		})
	}
}

func TestCoupon_CalculateDiscount(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from, to := validWindow(now)
	maxTen := dec("10")

	base := Coupon{Active: true, ValidFrom: from, ValidTo: to}

	tests := []struct {
		name   string
		setup  func(c *Coupon)
		amount string
		want   string
	}{
		{
			name: "percentage",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("20")
			},
			amount: "50",
			want:   "10",
		},
		{
			name: "percentage rounds to cents",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("15")
			},
			amount: "33.33",
			want:   "5",
		},
		{
			name: "percentage capped at max discount",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("50")
				c.MaxDiscount = &maxTen
			},
			amount: "100",
			want:   "10",
		},
		{
			name: "fixed",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountFixed
				c.DiscountValue = dec("5")
			},
			amount: "30",
			want:   "5",
		},
		{
			name: "fixed never exceeds subtotal",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountFixed
				c.DiscountValue = dec("50")
			},
			amount: "30",
			want:   "30",
		},
		{
			name: "below min purchase",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("20")
				c.MinPurchase = dec("100")
			},
			amount: "99.99",
			want:   "0",
		},
		{
			name: "at min purchase",
			setup: func(c *Coupon) {
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("20")
				c.MinPurchase = dec("100")
			},
			amount: "100",
			want:   "20",
		},
		{
			name: "invalid coupon yields zero",
			setup: func(c *Coupon) {
				c.Active = false
				c.DiscountType = DiscountPercentage
				c.DiscountValue = dec("20")
			},
			amount: "100",
			want:   "0",
		},
		{
			name: "unknown discount type yields zero",
			setup: func(c *Coupon) {
				c.DiscountType = "free_shipping"
				c.DiscountValue = dec("20")
			},
			amount: "100",
			want:   "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.setup(&c)

			got := c.CalculateDiscount(dec(tt.amount), now)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCoupon_DiscountNeverNegative(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	from, to := validWindow(now)

	c := Coupon{
		Active:        true,
		ValidFrom:     from,
		ValidTo:       to,
		DiscountType:  DiscountFixed,
		DiscountValue: dec("100"),
	}

	subtotal := dec("30")
	discount := c.CalculateDiscount(subtotal, now)
	assert.False(t, subtotal.Sub(discount).IsNegative())
}
