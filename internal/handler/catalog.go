package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/catalog"
)

// ListProducts serves GET /api/products with optional category, search,
// and sort query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.products.List(r.Context(), catalog.ListParams{
		CategorySlug: q.Get("category"),
		Search:       q.Get("q"),
		Sort:         q.Get("sort"),
	})
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range products {
					h.encodeProduct(e, &products[i])
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

// GetProduct serves GET /api/products/{slug}. Only available products
// resolve; everything else is a plain 404.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "product not found")
			return
		}
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	h.encodeProduct(&e, p)
	writeJSON(w, http.StatusOK, &e)
}

// ListCategories serves GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		respondInternal(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("categories", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range categories {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
						e.Field("slug", func(e *jx.Encoder) { e.Str(c.Slug) })
						e.Field("description", func(e *jx.Encoder) { e.Str(c.Description) })
					})
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) encodeProduct(e *jx.Encoder, p *catalog.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("slug", func(e *jx.Encoder) { e.Str(p.Slug) })
		e.Field("category_id", func(e *jx.Encoder) { e.Str(p.CategoryID) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("price", func(e *jx.Encoder) { e.Float64(p.Price.InexactFloat64()) })
		e.Field("image", func(e *jx.Encoder) { e.Str(h.imageURL(p.Image)) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		e.Field("available", func(e *jx.Encoder) { e.Bool(p.Available) })
		e.Field("avg_rating", func(e *jx.Encoder) { e.Float64(p.AvgRating) })
		e.Field("review_count", func(e *jx.Encoder) { e.Int(p.ReviewCount) })
		e.Field("created_at", func(e *jx.Encoder) { e.Str(p.CreatedAt.Format(time.RFC3339)) })
	})
}
