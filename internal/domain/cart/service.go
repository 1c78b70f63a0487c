package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/session"
)

// Service mutates the session cart with stock-bound quantity checks and
// renders it with live coupon discounting. Every mutation follows the
// same read-modify-write cycle against the session store; there is no
// cross-request locking, so concurrent mutations of one session are
// last-write-wins.
type Service struct {
	products catalog.Repository
	coupons  *coupon.Service
	sessions session.Store
}

// NewService creates a cart Service with the required dependencies.
func NewService(products catalog.Repository, coupons *coupon.Service, sessions session.Store) *Service {
	return &Service{
		products: products,
		coupons:  coupons,
		sessions: sessions,
	}
}

// Add puts quantity units of the product into the session cart, creating
// or incrementing the line item. The product's name, price, and image are
// captured at this moment and not refreshed on later views.
//
// It returns ErrOutOfStock when the product has no stock at all,
// an InsufficientStockError when the cart quantity plus the requested
// quantity exceeds live stock, and catalog.ErrNotFound for an unknown
// product. It returns the updated item count on success.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int) (int, error) {
	if quantity <= 0 {
		quantity = 1
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p.Stock <= 0 {
		return 0, ErrOutOfStock
	}

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}

	current := state.Cart[productID].Quantity
	if current+quantity > p.Stock {
		return 0, &InsufficientStockError{ProductID: productID, Available: p.Stock}
	}

	if item, ok := state.Cart[productID]; ok {
		item.Quantity += quantity
		state.Cart[productID] = item
	} else {
		state.Cart[productID] = session.LineItem{
			ProductID: productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
			Image:     p.Image,
		}
	}

	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return 0, errors.Wrap(err, "save session")
	}
	return state.ItemCount(), nil
}

// SetQuantity replaces the quantity of an existing line item, re-checking
// against live catalog stock. A quantity of zero or less removes the line
// item instead. A line item whose product has been deleted is removed as
// well. Unknown line items are ignored.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (int, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}

	if item, ok := state.Cart[productID]; ok {
		p, err := s.products.GetByID(ctx, productID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			delete(state.Cart, productID)
		case err != nil:
			return 0, errors.Wrap(err, "get product")
		case quantity > p.Stock:
			return 0, &InsufficientStockError{ProductID: productID, Available: p.Stock}
		case quantity > 0:
			item.Quantity = quantity
			state.Cart[productID] = item
		default:
			delete(state.Cart, productID)
		}
	}

	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return 0, errors.Wrap(err, "save session")
	}
	return state.ItemCount(), nil
}

// Remove deletes the line item for productID. Removing an absent item is
// not an error.
func (s *Service) Remove(ctx context.Context, sessionID, productID string) (int, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}

	delete(state.Cart, productID)

	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return 0, errors.Wrap(err, "save session")
	}
	return state.ItemCount(), nil
}

// Clear empties the cart. It is called after a successful checkout and
// leaves any applied coupon code in place.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "load session")
	}

	state.Cart = make(map[string]session.LineItem)

	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return errors.Wrap(err, "save session")
	}
	return nil
}

// Count returns the current item count without mutating anything.
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, errors.Wrap(err, "load session")
	}
	return state.ItemCount(), nil
}

// Render prices the cart for display. Line items whose product has been
// deleted from the catalog are silently skipped; they contribute nothing
// to the totals and do not appear in the view. The applied coupon is
// resolved from live data; a code that no longer exists is dropped from
// the session.
func (s *Service) Render(ctx context.Context, sessionID string) (*View, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}

	ids := make([]string, 0, len(state.Cart))
	for id := range state.Cart {
		ids = append(ids, id)
	}

	live := make(map[string]catalog.Product, len(ids))
	if len(ids) > 0 {
		products, err := s.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, errors.Wrap(err, "get products")
		}
		for _, p := range products {
			live[p.ID] = p
		}
	}

	view := &View{
		Subtotal:  decimal.Zero,
		ItemCount: state.ItemCount(),
	}
	for _, id := range ids {
		p, ok := live[id]
		if !ok {
			// Stale entry for a deleted product: excluded from totals.
			continue
		}
		item := state.Cart[id]
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, Item{
			LineItem:  item,
			LineTotal: lineTotal,
			Stock:     p.Stock,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}

	hadCode := state.CouponCode != ""
	c, discount, err := s.coupons.Resolve(ctx, state, view.Subtotal)
	if err != nil {
		return nil, errors.Wrap(err, "resolve coupon")
	}
	view.Coupon = c
	view.Discount = discount
	view.FinalTotal = view.Subtotal.Sub(discount)

	// Resolve dropped a vanished code; persist the cleanup.
	if hadCode && state.CouponCode == "" {
		if err := s.sessions.Save(ctx, sessionID, state); err != nil {
			return nil, errors.Wrap(err, "save session")
		}
	}

	return view, nil
}
