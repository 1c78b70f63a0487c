package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/session"
)

// --- Mock implementations ---

type mockCouponRepo struct {
	coupons map[string]*coupon.Coupon
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	c, ok := m.coupons[code]
	if !ok {
		return nil, coupon.ErrNotFound
	}
	return c, nil
}

type mockOrderRepo struct {
	lastOrder *Order
	createErr error
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.lastOrder = o
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	if m.lastOrder != nil && m.lastOrder.ID == id {
		return m.lastOrder, nil
	}
	return nil, ErrNotFound
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]Order, error) {
	if m.lastOrder == nil {
		return nil, nil
	}
	return []Order{*m.lastOrder}, nil
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	svc     *Service
	store   *session.MemoryStore
	orders  *mockOrderRepo
	coupons *mockCouponRepo
}

func newFixture() *fixture {
	store := session.NewMemoryStore()
	couponRepo := &mockCouponRepo{coupons: make(map[string]*coupon.Coupon)}
	orderRepo := &mockOrderRepo{}
	return &fixture{
		svc:     NewService(store, coupon.NewService(couponRepo, store), orderRepo),
		store:   store,
		orders:  orderRepo,
		coupons: couponRepo,
	}
}

func (f *fixture) seedCart(t *testing.T, sessionID string, couponCode string, items ...session.LineItem) {
	t.Helper()
	state := session.NewState()
	for _, item := range items {
		state.Cart[item.ProductID] = item
	}
	state.CouponCode = couponCode
	require.NoError(t, f.store.Save(t.Context(), sessionID, state))
}

func line(productID, price string, quantity int) session.LineItem {
	return session.LineItem{
		ProductID: productID,
		Name:      "Product " + productID,
		Price:     dec(price),
		Quantity:  quantity,
	}
}

var info = CustomerInfo{
	UserID:     "u1",
	FirstName:  "Ada",
	LastName:   "Lovelace",
	Email:      "ada@example.com",
	Address:    "1 Analytical Way",
	City:       "London",
	PostalCode: "N1 7AA",
}

// --- Tests ---

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Checkout(t.Context(), "s1", info)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_NoCoupon(t *testing.T) {
	f := newFixture()
	f.seedCart(t, "s1", "", line("p1", "10.00", 2), line("p2", "5.50", 1))

	o, err := f.svc.Checkout(t.Context(), "s1", info)
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(dec("25.50")), "got %s", o.TotalAmount)
	assert.True(t, o.DiscountAmount.IsZero())
	assert.Empty(t, o.CouponCode)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, "Ada", o.FirstName)

	require.NotNil(t, f.orders.lastOrder)
	assert.Equal(t, o.ID, f.orders.lastOrder.ID)
}

func TestCheckout_WithCoupon(t *testing.T) {
	f := newFixture()
	f.coupons.coupons["FIVER"] = &coupon.Coupon{
		Code:          "FIVER",
		DiscountType:  coupon.DiscountFixed,
		DiscountValue: dec("5"),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(time.Hour),
		Active:        true,
	}
	f.seedCart(t, "s1", "FIVER", line("p1", "10.00", 3))

	o, err := f.svc.Checkout(t.Context(), "s1", info)
	require.NoError(t, err)

	assert.True(t, o.TotalAmount.Equal(dec("30.00")), "got %s", o.TotalAmount)
	assert.True(t, o.DiscountAmount.Equal(dec("5.00")), "got %s", o.DiscountAmount)
	assert.Equal(t, "FIVER", o.CouponCode)
}

func TestCheckout_InvalidCouponRecordsNothing(t *testing.T) {
	f := newFixture()
	f.coupons.coupons["EXPIRED"] = &coupon.Coupon{
		Code:          "EXPIRED",
		DiscountType:  coupon.DiscountPercentage,
		DiscountValue: dec("10"),
		ValidFrom:     time.Now().Add(-2 * time.Hour),
		ValidTo:       time.Now().Add(-time.Hour),
		Active:        true,
	}
	f.seedCart(t, "s1", "EXPIRED", line("p1", "10.00", 1))

	o, err := f.svc.Checkout(t.Context(), "s1", info)
	require.NoError(t, err)

	assert.True(t, o.DiscountAmount.IsZero())
	assert.Empty(t, o.CouponCode, "a zero-discount coupon is not recorded on the order")
}

func TestCheckout_ClearsCartKeepsCoupon(t *testing.T) {
	f := newFixture()
	f.coupons.coupons["FIVER"] = &coupon.Coupon{
		Code:          "FIVER",
		DiscountType:  coupon.DiscountFixed,
		DiscountValue: dec("5"),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(time.Hour),
		Active:        true,
	}
	f.seedCart(t, "s1", "FIVER", line("p1", "10.00", 3))

	_, err := f.svc.Checkout(t.Context(), "s1", info)
	require.NoError(t, err)

	state, err := f.store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Empty(t, state.Cart)
	assert.Equal(t, "FIVER", state.CouponCode)
}

func TestCheckout_RepoFailureLeavesCart(t *testing.T) {
	f := newFixture()
	f.orders.createErr = errors.New("connection reset")
	f.seedCart(t, "s1", "", line("p1", "10.00", 2))

	_, err := f.svc.Checkout(t.Context(), "s1", info)
	require.Error(t, err)

	state, err := f.store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Len(t, state.Cart, 1, "failed checkout must not clear the cart")
}

func TestCheckout_SnapshotPrices(t *testing.T) {
	f := newFixture()
	f.seedCart(t, "s1", "", line("p1", "10.00", 2))

	o, err := f.svc.Checkout(t.Context(), "s1", info)
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].Price.Equal(dec("10.00")))
	assert.True(t, o.Items[0].Cost().Equal(dec("20.00")))
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusProcessing))
	assert.True(t, StatusPending.CanTransition(StatusCancelled))
	assert.True(t, StatusProcessing.CanTransition(StatusCompleted))
	assert.True(t, StatusProcessing.CanTransition(StatusCancelled))

	assert.False(t, StatusPending.CanTransition(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransition(StatusPending))
	assert.False(t, StatusCancelled.CanTransition(StatusProcessing))
}
