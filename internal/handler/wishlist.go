package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/catalog"
)

// ToggleWishlist serves POST /api/wishlist/{productID}: adds the product
// when absent, removes it when present.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID := r.PathValue("productID")
	if _, err := h.products.GetByID(r.Context(), productID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	wishlisted, err := h.wishlists.Toggle(r.Context(), uid, productID)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	if !wantsJSON(r) {
		redirectBack(w, r)
		return
	}
	message := "removed from wishlist"
	if wishlisted {
		message = "added to wishlist"
	}
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("success", func(e *jx.Encoder) { e.Bool(true) })
		e.Field("wishlisted", func(e *jx.Encoder) { e.Bool(wishlisted) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, http.StatusOK, &e)
}

// ListWishlist serves GET /api/wishlist: the user's wishlisted products,
// newest first. Entries whose product was deleted are skipped.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, err := h.wishlists.List(r.Context(), uid)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ProductID)
	}
	live := make(map[string]catalog.Product, len(ids))
	if len(ids) > 0 {
		products, err := h.products.GetByIDs(r.Context(), ids)
		if err != nil {
			respondInternal(w, r, err)
			return
		}
		for _, p := range products {
			live[p.ID] = p
		}
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, entry := range entries {
					p, ok := live[entry.ProductID]
					if !ok {
						continue
					}
					h.encodeProduct(e, &p)
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}
