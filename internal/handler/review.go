package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/review"
)

const defaultReviewLimit = 20

// ListReviews serves GET /api/products/{productID}/reviews. Only
// approved reviews are visible.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit := defaultReviewLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	reviews, err := h.reviews.ListApproved(r.Context(), r.PathValue("productID"), limit)
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("reviews", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, rv := range reviews {
					e.Obj(func(e *jx.Encoder) {
						e.Field("user_id", func(e *jx.Encoder) { e.Str(rv.UserID) })
						e.Field("rating", func(e *jx.Encoder) { e.Int(rv.Rating) })
						e.Field("comment", func(e *jx.Encoder) { e.Str(rv.Comment) })
						e.Field("created_at", func(e *jx.Encoder) { e.Str(rv.CreatedAt.Format(time.RFC3339)) })
					})
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

// UpsertReview serves POST /api/products/{productID}/reviews. A second
// submission by the same user replaces the first review instead of
// adding another.
func (h *Handler) UpsertReview(w http.ResponseWriter, r *http.Request) {
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

	fields, err := bodyFields(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	rating, err := strconv.Atoi(fields["rating"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "rating must be an integer")
		return
	}

	created, err := h.reviews.Upsert(r.Context(), uid, productID, rating, fields["comment"])
	if err != nil {
		if errors.Is(err, review.ErrInvalidRating) {
			respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
			return
		}
		respondInternal(w, r, err)
		return
	}

	message := "review updated"
	status := http.StatusOK
	if created {
		message = "review added"
		status = http.StatusCreated
	}
	respondMessage(w, r, status, message)
}
