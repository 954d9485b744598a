package handler

import (
	"net/http"
	"strconv"

	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalog HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with pagination and an optional
// category filter.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeBadRequest(w, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeBadRequest(w, "invalid offset parameter", h.logger)
			return
		}
	}

	products, err := h.service.ListProducts(r.Context(), limit, offset, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	productID := r.URL.Path[len("/api/products/"):]
	if productID == "" {
		writeBadRequest(w, "product ID is required", h.logger)
		return
	}

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Categories handles GET /api/categories requests.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// FlashDeals handles GET /api/flash-deals requests.
func (h *ProductHandler) FlashDeals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	deals, err := h.service.FlashDeals(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, deals)
}

// Seed handles POST /api/catalog/seed requests, reloading the product seed.
func (h *ProductHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	count, err := h.service.SeedCatalog(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"products": count})
}
