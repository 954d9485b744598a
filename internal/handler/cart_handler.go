package handler

import (
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. Every operation sits behind the
// subscription gate.
type CartHandler struct {
	cart          service.CartService
	subscriptions service.SubscriptionService
	logger        zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart service.CartService, subscriptions service.SubscriptionService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:          cart,
		subscriptions: subscriptions,
		logger:        logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) gate(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if err := h.subscriptions.RequireActive(r.Context(), userID); err != nil {
		writeError(w, err, h.logger)
		return "", false
	}
	return userID, true
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	summary, err := h.cart.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Add handles POST /api/cart/items requests.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeBadRequest(w, "product_id is required", h.logger)
		return
	}

	summary, err := h.cart.Add(r.Context(), userID, req.ProductID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// SetQuantity handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request, productID string) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	summary, err := h.cart.SetQuantity(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Remove handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request, productID string) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	summary, err := h.cart.Remove(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// Reset handles POST /api/cart/reset requests, used on sign-out. Not gated:
// a lapsed subscriber can still discard their cart.
func (h *CartHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := h.cart.Reset(r.Context(), userID); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
