package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/cart"
	"github.com/fastcm/shophub-be/internal/models"
	"github.com/fastcm/shophub-be/internal/services"
)

const cartCookieName = "cart_session"

// CartHandler handles HTTP requests for the session cart. The cart is
// keyed by an opaque cookie, not by the user account: shoppers do not need
// to be signed in to fill a cart.
type CartHandler struct {
	store    cart.Store
	products services.ProductServiceProvider
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store cart.Store, products services.ProductServiceProvider) *CartHandler {
	return &CartHandler{store: store, products: products}
}

// Get returns the session's cart with its computed total.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	c, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load cart")
		respondError(w, err)
		return
	}
	h.respondCart(w, c)
}

// AddItem adds a product line to the cart. Name, price and image are
// snapshotted from the catalog; a client cannot set its own price.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.products.GetProductByID(payload.ProductID)
	if err != nil {
		log.Warn().Err(err).Str("product_id", payload.ProductID).Msg("Cart add for unknown product")
		respondError(w, err)
		return
	}

	sessionID := h.sessionID(w, r)
	c, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load cart")
		respondError(w, err)
		return
	}

	c.AddItem(models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  payload.Quantity,
	})

	if err := h.store.Save(r.Context(), sessionID, c); err != nil {
		log.Error().Err(err).Msg("Failed to save cart")
		respondError(w, err)
		return
	}
	h.respondCart(w, c)
}

// RemoveItem drops a product line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	sessionID := h.sessionID(w, r)
	c, err := h.store.Load(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load cart")
		respondError(w, err)
		return
	}

	c.RemoveItem(productID)

	if err := h.store.Save(r.Context(), sessionID, c); err != nil {
		log.Error().Err(err).Msg("Failed to save cart")
		respondError(w, err)
		return
	}
	h.respondCart(w, c)
}

// Clear empties the session's cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := h.sessionID(w, r)
	if err := h.store.Delete(r.Context(), sessionID); err != nil {
		log.Error().Err(err).Msg("Failed to clear cart")
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, c models.Cart) {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": c.Items,
		"total": c.Total(),
	})
}

// sessionID returns the cart session id from the request cookie, minting
// and setting a new one when absent.
func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.New().String()
	isProd := os.Getenv("APP_ENV") == "production"
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return id
}
