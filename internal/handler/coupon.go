package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/coupon"
)

// ApplyCoupon serves POST /api/coupon with a "code" field. Distinct
// failure modes get distinct messages: a malformed code is rejected
// before lookup, an unknown code reports not-found, and a known but
// inactive, expired, or exhausted code reports invalid.
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	fields, err := bodyFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	err = h.coupons.ApplyCode(r.Context(), sid, fields["code"])
	count := h.currentCount(r, sid)
	switch {
	case err == nil:
		respondCartMessage(w, r, http.StatusOK, "coupon applied", count)
	case errors.Is(err, coupon.ErrMalformedCode):
		respondCartMessage(w, r, http.StatusBadRequest, "invalid coupon code format", count)
	case errors.Is(err, coupon.ErrNotFound):
		respondCartMessage(w, r, http.StatusNotFound, "coupon code not found", count)
	case errors.Is(err, coupon.ErrInvalid):
		respondCartMessage(w, r, http.StatusBadRequest, "coupon is expired or no longer valid", count)
	default:
		respondInternal(w, r, err)
	}
}

// RemoveCoupon serves DELETE /api/coupon. Removing when nothing is
// applied still succeeds.
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	if err := h.coupons.RemoveCode(r.Context(), sid); err != nil {
		respondInternal(w, r, err)
		return
	}
	respondCartMessage(w, r, http.StatusOK, "coupon removed", h.currentCount(r, sid))
}
