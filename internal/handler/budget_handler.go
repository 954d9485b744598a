package handler

import (
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// BudgetHandler handles monthly budget HTTP requests.
type BudgetHandler struct {
	service service.BudgetService
	logger  zerolog.Logger
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(service service.BudgetService, logger zerolog.Logger) *BudgetHandler {
	return &BudgetHandler{
		service: service,
		logger:  logger.With().Str("handler", "budget").Logger(),
	}
}

// Current handles GET /api/budget requests. An unset budget is a 200 with a
// null body so clients can distinguish "not configured" from an error.
func (h *BudgetHandler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPut {
		h.set(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	budget, err := h.service.Current(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, budget)
}

// Remaining handles GET /api/budget/remaining requests.
func (h *BudgetHandler) Remaining(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	remaining, err := h.service.Remaining(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, remaining)
}

// set handles PUT /api/budget requests.
func (h *BudgetHandler) set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	budget, err := h.service.Set(r.Context(), middleware.UserID(r.Context()), req.Amount)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, budget)
}
