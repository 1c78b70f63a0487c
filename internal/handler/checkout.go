package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/order"
)

// checkoutFields are the required customer form fields, checked in order
// so error messages are deterministic.
var checkoutFields = []string{"first_name", "last_name", "email", "address", "city", "postal_code"}

// Checkout serves POST /api/checkout: materializes the session cart into
// an order. JSON clients get the created order with a 201; browsers are
// redirected to the order confirmation.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	fields, err := bodyFields(r)
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	for _, name := range checkoutFields {
		if fields[name] == "" {
			respondMessage(w, r, http.StatusBadRequest, "missing required field: "+name)
			return
		}
	}

	o, err := h.orders.Checkout(r.Context(), sid, order.CustomerInfo{
		UserID:     userID(r),
		FirstName:  fields["first_name"],
		LastName:   fields["last_name"],
		Email:      fields["email"],
		Address:    fields["address"],
		City:       fields["city"],
		PostalCode: fields["postal_code"],
	})
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			respondMessage(w, r, http.StatusBadRequest, "cart is empty")
			return
		}
		respondInternal(w, r, err)
		return
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/api/orders/"+o.ID, http.StatusSeeOther)
		return
	}
	var e jx.Encoder
	encodeOrder(&e, o, true)
	writeJSON(w, http.StatusCreated, &e)
}

// GetOrder serves GET /api/orders/{orderID}. Orders owned by a user are
// only visible to that user; guest orders are addressable by ID alone.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), r.PathValue("orderID"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		respondInternal(w, r, err)
		return
	}
	if o.UserID != "" && o.UserID != userID(r) {
		// Do not reveal that the order exists.
		respondError(w, http.StatusNotFound, "order not found")
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o, true)
	writeJSON(w, http.StatusOK, &e)
}

// OrderHistory serves GET /api/orders for the identified user, newest
// first and without line items.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orders, err := h.orders.History(r.Context(), uid)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("orders", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range orders {
					encodeOrder(e, &orders[i], false)
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

func encodeOrder(e *jx.Encoder, o *order.Order, withItems bool) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("total_amount", func(e *jx.Encoder) { e.Float64(o.TotalAmount.InexactFloat64()) })
		e.Field("discount_amount", func(e *jx.Encoder) { e.Float64(o.DiscountAmount.InexactFloat64()) })
		e.Field("final_total", func(e *jx.Encoder) {
			e.Float64(o.TotalAmount.Sub(o.DiscountAmount).InexactFloat64())
		})
		e.Field("coupon_code", func(e *jx.Encoder) { e.Str(o.CouponCode) })
		e.Field("created_at", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339)) })
		if !withItems {
			return
		}
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("product_id", func(e *jx.Encoder) { e.Str(item.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
						e.Field("price", func(e *jx.Encoder) { e.Float64(item.Price.InexactFloat64()) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("cost", func(e *jx.Encoder) { e.Float64(item.Cost().InexactFloat64()) })
					})
				}
			})
		})
	})
}
