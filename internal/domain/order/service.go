package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/session"
)

// ErrEmptyCart is returned when checking out a session with no line items.
var ErrEmptyCart = errors.New("cart is empty")

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// CustomerInfo carries the denormalized customer and shipping fields
// captured at checkout.
type CustomerInfo struct {
	UserID     string
	FirstName  string
	LastName   string
	Email      string
	Address    string
	City       string
	PostalCode string
}

// Service converts a session cart into a persisted order.
type Service struct {
	sessions session.Store
	coupons  *coupon.Service
	orders   Repository
}

// NewService creates an order Service with the required dependencies.
func NewService(sessions session.Store, coupons *coupon.Service, orders Repository) *Service {
	return &Service{
		sessions: sessions,
		coupons:  coupons,
		orders:   orders,
	}
}

// Checkout materializes the session cart into an order and returns the
// new order's ID.
//
// The subtotal comes from the cart's captured prices; stock is neither
// re-validated nor decremented here. The discount is computed from live
// coupon state against that subtotal, zero when no valid coupon is
// applied. The order and its items are persisted in one transaction, and
// only after that succeeds is the cart cleared. The applied coupon's
// used_count is intentionally left untouched.
func (s *Service) Checkout(ctx context.Context, sessionID string, info CustomerInfo) (*Order, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if len(state.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := state.Subtotal()

	c, discount, err := s.coupons.Resolve(ctx, state, subtotal)
	if err != nil {
		return nil, errors.Wrap(err, "resolve coupon")
	}

	couponCode := ""
	if c != nil && discount.IsPositive() {
		couponCode = c.Code
	}

	items := make([]Item, 0, len(state.Cart))
	for _, line := range state.Cart {
		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}

	o := &Order{
		ID:             uuid.New().String(),
		UserID:         info.UserID,
		FirstName:      info.FirstName,
		LastName:       info.LastName,
		Email:          info.Email,
		Address:        info.Address,
		City:           info.City,
		PostalCode:     info.PostalCode,
		Status:         StatusPending,
		TotalAmount:    subtotal.Round(2),
		DiscountAmount: discount.Round(2),
		CouponCode:     couponCode,
		Items:          items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// Clear the cart only once the order is durably persisted. The coupon
	// code stays in the session; an exhausted or expired coupon simply
	// yields a zero discount next time.
	state.Cart = make(map[string]session.LineItem)
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}

	return o, nil
}

// GetByID returns an order with its items.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// History returns the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
