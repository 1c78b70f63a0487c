package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/session"
)

type mockCouponRepo struct {
	coupons map[string]*Coupon
	err     error
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.coupons[code]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func newTestService(coupons ...*Coupon) (*Service, *session.MemoryStore) {
	byCode := make(map[string]*Coupon, len(coupons))
	for _, c := range coupons {
		byCode[c.Code] = c
	}
	store := session.NewMemoryStore()
	svc := NewService(&mockCouponRepo{coupons: byCode}, store)
	return svc, store
}

func activeCoupon(code string) *Coupon {
	return &Coupon{
		Code:          code,
		DiscountType:  DiscountPercentage,
		DiscountValue: decimal.NewFromInt(10),
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidTo:       time.Now().Add(time.Hour),
		Active:        true,
	}
}

func TestApplyCode_Success(t *testing.T) {
	svc, store := newTestService(activeCoupon("SAVE10"))

	err := svc.ApplyCode(t.Context(), "s1", "SAVE10")
	require.NoError(t, err)

	state, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", state.CouponCode)
}

func TestApplyCode_TrimsWhitespace(t *testing.T) {
	svc, store := newTestService(activeCoupon("SAVE10"))

	require.NoError(t, svc.ApplyCode(t.Context(), "s1", "  SAVE10  "))

	state, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", state.CouponCode)
}

func TestApplyCode_Malformed(t *testing.T) {
	svc, _ := newTestService()

	for _, code := range []string{"", "has space", "percent%off", string(make([]byte, 51))} {
		err := svc.ApplyCode(t.Context(), "s1", code)
		assert.ErrorIs(t, err, ErrMalformedCode, "code %q", code)
	}
}

func TestApplyCode_NotFound(t *testing.T) {
	svc, store := newTestService()

	err := svc.ApplyCode(t.Context(), "s1", "NOPE")
	require.ErrorIs(t, err, ErrNotFound)

	// A failed apply must not touch the session.
	state, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Empty(t, state.CouponCode)
}

func TestApplyCode_Invalid(t *testing.T) {
	expired := activeCoupon("EXPIRED")
	expired.ValidTo = time.Now().Add(-time.Minute)

	inactive := activeCoupon("INACTIVE")
	inactive.Active = false

	exhausted := activeCoupon("USEDUP")
	exhausted.UsageLimit = 3
	exhausted.UsedCount = 3

	svc, _ := newTestService(expired, inactive, exhausted)

	for _, code := range []string{"EXPIRED", "INACTIVE", "USEDUP"} {
		err := svc.ApplyCode(t.Context(), "s1", code)
		assert.ErrorIs(t, err, ErrInvalid, "code %q", code)
	}
}

func TestApplyCode_ReplacesPrevious(t *testing.T) {
	svc, store := newTestService(activeCoupon("FIRST"), activeCoupon("SECOND"))

	require.NoError(t, svc.ApplyCode(t.Context(), "s1", "FIRST"))
	require.NoError(t, svc.ApplyCode(t.Context(), "s1", "SECOND"))

	state, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "SECOND", state.CouponCode)
}

func TestRemoveCode_Idempotent(t *testing.T) {
	svc, store := newTestService(activeCoupon("SAVE10"))

	require.NoError(t, svc.ApplyCode(t.Context(), "s1", "SAVE10"))
	require.NoError(t, svc.RemoveCode(t.Context(), "s1"))
	require.NoError(t, svc.RemoveCode(t.Context(), "s1"))

	state, err := store.Load(t.Context(), "s1")
	require.NoError(t, err)
	assert.Empty(t, state.CouponCode)
}

func TestResolve_NoCode(t *testing.T) {
	svc, _ := newTestService()

	c, discount, err := svc.Resolve(t.Context(), session.NewState(), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.True(t, discount.IsZero())
}

func TestResolve_VanishedCodeDropped(t *testing.T) {
	svc, _ := newTestService()

	state := session.NewState()
	state.CouponCode = "DELETED"

	c, discount, err := svc.Resolve(t.Context(), state, decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.True(t, discount.IsZero())
	assert.Empty(t, state.CouponCode, "vanished code should be dropped from state")
}

func TestResolve_InvalidCouponStaysApplied(t *testing.T) {
	expired := activeCoupon("EXPIRED")
	expired.ValidTo = time.Now().Add(-time.Minute)
	svc, _ := newTestService(expired)

	state := session.NewState()
	state.CouponCode = "EXPIRED"

	c, discount, err := svc.Resolve(t.Context(), state, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, discount.IsZero())
	assert.Equal(t, "EXPIRED", state.CouponCode, "invalid coupon stays in the session")
}

func TestResolve_Discount(t *testing.T) {
	svc, _ := newTestService(activeCoupon("SAVE10"))

	state := session.NewState()
	state.CouponCode = "SAVE10"

	c, discount, err := svc.Resolve(t.Context(), state, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.True(t, discount.Equal(decimal.NewFromInt(5)), "got %s", discount)
}
