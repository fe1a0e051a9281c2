package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fastcm/shophub-be/internal/services"
)

// ProductHandler handles HTTP requests for the storefront catalog.
type ProductHandler struct {
	service services.ProductServiceProvider
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service services.ProductServiceProvider) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles retrieving the full catalog.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProducts()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list products")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// Get handles retrieving a single product.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("Failed to get product")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Create handles adding a catalog entry (admin only, enforced by the route).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Price    int64  `json:"price"`
		Image    string `json:"image"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Name == "" || payload.Price < 0 {
		http.Error(w, "Name and a non-negative price are required", http.StatusBadRequest)
		return
	}

	product, err := h.service.CreateProduct(payload.Name, payload.Price, payload.Image, payload.Category)
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create product")
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}
