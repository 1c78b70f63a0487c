package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, user_id, first_name, last_name, email,
		address, city, postal_code, status, total_amount, discount_amount, coupon_code)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''))`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)`

	getOrderSQL = `SELECT id, COALESCE(user_id, ''), first_name, last_name, email,
		address, city, postal_code, status, total_amount, discount_amount,
		COALESCE(coupon_code, ''), created_at, updated_at
		FROM orders WHERE id = $1`

	getOrderItemsSQL = `SELECT product_id, name, price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`

	listOrdersByUserSQL = `SELECT id, COALESCE(user_id, ''), first_name, last_name, email,
		address, city, postal_code, status, total_amount, discount_amount,
		COALESCE(coupon_code, ''), created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists an order and all of its items in a single transaction.
// A failing item insert (for example a product_id whose product row was
// deleted between cart time and checkout) rolls back the whole order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.UserID, o.FirstName, o.LastName, o.Email,
		o.Address, o.City, o.PostalCode, string(o.Status),
		o.TotalAmount, o.DiscountAmount, o.CouponCode,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			o.ID, item.ProductID, item.Name, item.Price, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("creating order item %q for order %q: %w", item.ProductID, o.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// GetByID returns an order together with its items.
// Returns order.ErrNotFound when no such order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}
	o.Items, err = pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (order.Item, error) {
		var item order.Item
		err := row.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning items for order %q: %w", id, err)
	}

	return &o, nil
}

// ListByUser returns the user's orders, newest first, without items.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email,
		&o.Address, &o.City, &o.PostalCode, &status,
		&o.TotalAmount, &o.DiscountAmount, &o.CouponCode,
		&o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = order.Status(status)
	return o, err
}
