package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/coupon"
)

const (
	getCouponByCodeSQL = `SELECT code, description, discount_type, discount_value,
		min_purchase, max_discount, valid_from, valid_to, active, usage_limit, used_count
		FROM coupons WHERE code = $1`

	upsertCouponSQL = `INSERT INTO coupons (code, description, discount_type, discount_value,
		min_purchase, max_discount, valid_from, valid_to, active, usage_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description,
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			min_purchase = EXCLUDED.min_purchase,
			max_discount = EXCLUDED.max_discount,
			valid_from = EXCLUDED.valid_from,
			valid_to = EXCLUDED.valid_to,
			active = EXCLUDED.active,
			usage_limit = EXCLUDED.usage_limit`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByCode looks up a coupon by its exact code.
// Returns coupon.ErrNotFound when no such coupon exists.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// Upsert creates or replaces a coupon definition. Used by the seeding and
// ingest tools; used_count is preserved on conflict.
func (r *CouponRepository) Upsert(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, upsertCouponSQL,
		c.Code, c.Description, string(c.DiscountType), c.DiscountValue,
		c.MinPurchase, c.MaxDiscount, c.ValidFrom, c.ValidTo, c.Active, int32(c.UsageLimit),
	)
	if err != nil {
		return fmt.Errorf("upserting coupon %q: %w", c.Code, err)
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var (
		c            coupon.Coupon
		discountType string
		maxDiscount  *decimal.Decimal
		usageLimit   int32
		usedCount    int32
	)
	err := row.Scan(
		&c.Code, &c.Description, &discountType, &c.DiscountValue,
		&c.MinPurchase, &maxDiscount, &c.ValidFrom, &c.ValidTo, &c.Active,
		&usageLimit, &usedCount,
	)
	c.DiscountType = coupon.DiscountType(discountType)
	c.MaxDiscount = maxDiscount
	c.UsageLimit = int(usageLimit)
	c.UsedCount = int(usedCount)
	return c, err
}
