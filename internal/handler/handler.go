// Package handler implements the HTTP transport for the storefront.
//
// Cart, coupon, and checkout endpoints serve two kinds of clients: a
// browser posting forms (answered with a redirect) and a programmatic
// caller marked by the X-Requested-With header (answered with JSON).
package handler

import (
	"net/http"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/catalog"
	"github.com/xenking/storefront/internal/domain/coupon"
	"github.com/xenking/storefront/internal/domain/order"
	"github.com/xenking/storefront/internal/domain/review"
	"github.com/xenking/storefront/internal/domain/wishlist"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler routes storefront HTTP requests to the domain services.
type Handler struct {
	products  catalog.Repository
	carts     *cart.Service
	coupons   *coupon.Service
	orders    *order.Service
	reviews   *review.Service
	wishlists *wishlist.Service

	imageBaseURL string
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	products catalog.Repository,
	carts *cart.Service,
	coupons *coupon.Service,
	orders *order.Service,
	reviews *review.Service,
	wishlists *wishlist.Service,
) *Handler {
	return &Handler{
		products:     products,
		carts:        carts,
		coupons:      coupons,
		orders:       orders,
		reviews:      reviews,
		wishlists:    wishlists,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Register attaches all storefront routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{slug}", h.GetProduct)
	mux.HandleFunc("GET /api/categories", h.ListCategories)

	mux.HandleFunc("GET /api/cart", h.ViewCart)
	mux.HandleFunc("POST /api/cart/items/{productID}", h.AddToCart)
	mux.HandleFunc("PUT /api/cart/items/{productID}", h.UpdateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", h.RemoveFromCart)

	mux.HandleFunc("POST /api/coupon", h.ApplyCoupon)
	mux.HandleFunc("DELETE /api/coupon", h.RemoveCoupon)

	mux.HandleFunc("POST /api/checkout", h.Checkout)
	mux.HandleFunc("GET /api/orders", h.OrderHistory)
	mux.HandleFunc("GET /api/orders/{orderID}", h.GetOrder)

	mux.HandleFunc("GET /api/products/{productID}/reviews", h.ListReviews)
	mux.HandleFunc("POST /api/products/{productID}/reviews", h.UpsertReview)

	mux.HandleFunc("GET /api/wishlist", h.ListWishlist)
	mux.HandleFunc("POST /api/wishlist/{productID}", h.ToggleWishlist)
}

// imageURL prefixes a stored image path with the configured base URL.
func (h *Handler) imageURL(path string) string {
	if path == "" {
		return ""
	}
	return h.imageBaseURL + path
}
