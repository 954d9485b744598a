package handler

import (
	"net/http"
	"strconv"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order history HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// GetAll handles GET /api/orders requests.
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	orders, err := h.service.ListOrders(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	idStr := r.URL.Path[len("/api/orders/"):]
	id, err := uuid.Parse(idStr)
	if err != nil {
		writeBadRequest(w, "invalid order ID", h.logger)
		return
	}

	order, err := h.service.GetOrder(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func parseLimit(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// Recent handles GET /api/purchases/recent requests.
func (h *OrderHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	orders, err := h.service.RecentPurchases(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// MostPurchased handles GET /api/purchases/top-products requests.
func (h *OrderHandler) MostPurchased(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	products, err := h.service.MostPurchased(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}
