package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/session"
)

const maxCodeLen = 50

// Service applies and removes coupon codes on session state and resolves
// the effective discount for a subtotal from live coupon data.
type Service struct {
	coupons  Repository
	sessions session.Store
	now      func() time.Time
}

// NewService creates a coupon Service backed by the given repository and
// session store.
func NewService(coupons Repository, sessions session.Store) *Service {
	return &Service{
		coupons:  coupons,
		sessions: sessions,
		now:      time.Now,
	}
}

// ApplyCode validates the code shape, looks the coupon up, checks its
// validity, and on success stores the code (only the code, never a
// resolved discount) in the session state. The discount is therefore
// recomputed from live coupon data on every later view, so a coupon that
// expires or is deactivated between apply and checkout transparently
// stops applying.
func (s *Service) ApplyCode(ctx context.Context, sessionID, code string) error {
	code = strings.TrimSpace(code)
	if !isWellFormedCode(code) {
		return ErrMalformedCode
	}

	c, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return errors.Wrap(err, "lookup coupon")
	}
	if !c.IsValid(s.now()) {
		return ErrInvalid
	}

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	state.CouponCode = c.Code
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return errors.Wrap(err, "save session")
	}
	return nil
}

// RemoveCode unconditionally clears the applied coupon code. Idempotent.
func (s *Service) RemoveCode(ctx context.Context, sessionID string) error {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "load session")
	}
	state.CouponCode = ""
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return errors.Wrap(err, "save session")
	}
	return nil
}

// Resolve returns the live coupon for the state's applied code together
// with its discount against the given subtotal. It returns a nil coupon
// and a zero discount when no code is applied. A code that no longer
// resolves to a coupon is dropped from the state; the caller is
// responsible for persisting that cleanup. A coupon that merely became
// invalid stays applied but yields a zero discount.
func (s *Service) Resolve(ctx context.Context, state *session.State, subtotal decimal.Decimal) (*Coupon, decimal.Decimal, error) {
	if state.CouponCode == "" {
		return nil, decimal.Zero, nil
	}

	c, err := s.coupons.FindByCode(ctx, state.CouponCode)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			state.CouponCode = ""
			return nil, decimal.Zero, nil
		}
		return nil, decimal.Zero, errors.Wrap(err, "lookup coupon")
	}

	if subtotal.IsZero() {
		return c, decimal.Zero, nil
	}
	return c, c.CalculateDiscount(subtotal, s.now()), nil
}

// isWellFormedCode reports whether the code has a plausible shape:
// non-empty, at most maxCodeLen bytes, letters/digits/dash/underscore.
func isWellFormedCode(code string) bool {
	if code == "" || len(code) > maxCodeLen {
		return false
	}
	for i := range len(code) {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
