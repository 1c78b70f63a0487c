package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
)

// ViewCart serves GET /api/cart: the fully priced cart with the live
// coupon discount applied.
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	view, err := h.carts.Render(r.Context(), sid)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range view.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("product_id", func(e *jx.Encoder) { e.Str(item.ProductID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
						e.Field("price", func(e *jx.Encoder) { e.Float64(item.Price.InexactFloat64()) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(item.Quantity) })
						e.Field("image", func(e *jx.Encoder) { e.Str(h.imageURL(item.Image)) })
						e.Field("line_total", func(e *jx.Encoder) { e.Float64(item.LineTotal.InexactFloat64()) })
						e.Field("stock", func(e *jx.Encoder) { e.Int(item.Stock) })
					})
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { e.Float64(view.Subtotal.InexactFloat64()) })
		e.Field("discount", func(e *jx.Encoder) { e.Float64(view.Discount.InexactFloat64()) })
		e.Field("final_total", func(e *jx.Encoder) { e.Float64(view.FinalTotal.InexactFloat64()) })
		e.Field("cart_count", func(e *jx.Encoder) { e.Int(view.ItemCount) })
		e.Field("coupon", func(e *jx.Encoder) {
			if view.Coupon == nil {
				e.Null()
				return
			}
			e.Obj(func(e *jx.Encoder) {
				e.Field("code", func(e *jx.Encoder) { e.Str(view.Coupon.Code) })
				e.Field("discount_type", func(e *jx.Encoder) { e.Str(string(view.Coupon.DiscountType)) })
				e.Field("value", func(e *jx.Encoder) { e.Float64(view.Coupon.DiscountValue.InexactFloat64()) })
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

// AddToCart serves POST /api/cart/items/{productID}. A missing or
// non-positive quantity means one unit.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	productID := r.PathValue("productID")

	fields, err := bodyFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	quantity, _ := strconv.Atoi(fields["quantity"])

	count, err := h.carts.Add(r.Context(), sid, productID, quantity)
	if err != nil {
		h.respondCartError(w, r, sid, err)
		return
	}
	respondCartMessage(w, r, http.StatusOK, "added to cart", count)
}

// UpdateCartItem serves PUT /api/cart/items/{productID}. Quantity zero
// removes the line item.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)
	productID := r.PathValue("productID")

	fields, err := bodyFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	quantity, err := strconv.Atoi(fields["quantity"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}

	count, err := h.carts.SetQuantity(r.Context(), sid, productID, quantity)
	if err != nil {
		h.respondCartError(w, r, sid, err)
		return
	}
	respondCartMessage(w, r, http.StatusOK, "cart updated", count)
}

// RemoveFromCart serves DELETE /api/cart/items/{productID}. Removing an
// absent item still succeeds.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	count, err := h.carts.Remove(r.Context(), sid, r.PathValue("productID"))
	if err != nil {
		respondInternal(w, r, err)
		return
	}
	respondCartMessage(w, r, http.StatusOK, "removed from cart", count)
}

// respondCartError maps cart mutation failures onto HTTP answers. Stock
// violations report the current cart count so the client badge stays
// accurate.
func (h *Handler) respondCartError(w http.ResponseWriter, r *http.Request, sid string, err error) {
	var stockErr *cart.InsufficientStockError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrOutOfStock):
		respondCartMessage(w, r, http.StatusConflict, "product is out of stock", h.currentCount(r, sid))
	case errors.As(err, &stockErr):
		respondCartMessage(w, r, http.StatusConflict, stockErr.Error(), h.currentCount(r, sid))
	default:
		respondInternal(w, r, err)
	}
}

// currentCount fetches the cart count after a failed mutation, falling
// back to zero when the session store is unavailable too.
func (h *Handler) currentCount(r *http.Request, sid string) int {
	count, err := h.carts.Count(r.Context(), sid)
	if err != nil {
		return 0
	}
	return count
}
