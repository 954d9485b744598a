package handler

import (
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/model"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout flow HTTP requests. Every operation sits
// behind the subscription gate.
type CheckoutHandler struct {
	checkout      service.CheckoutService
	subscriptions service.SubscriptionService
	logger        zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, subscriptions service.SubscriptionService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout:      checkout,
		subscriptions: subscriptions,
		logger:        logger.With().Str("handler", "checkout").Logger(),
	}
}

func (h *CheckoutHandler) gate(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.UserID(r.Context())
	if err := h.subscriptions.RequireActive(r.Context(), userID); err != nil {
		writeError(w, err, h.logger)
		return "", false
	}
	return userID, true
}

// Triggers handles GET /api/checkout/triggers requests: the emotional
// trigger catalog with labels, descriptions and tips.
func (h *CheckoutHandler) Triggers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, model.EmotionalTriggers)
}

// State handles GET /api/checkout requests.
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.checkout.State(r.Context(), userID))
}

// SelectTrigger handles POST /api/checkout/trigger requests.
func (h *CheckoutHandler) SelectTrigger(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Trigger model.EmotionalTrigger `json:"trigger"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	state, err := h.checkout.SelectTrigger(r.Context(), userID, req.Trigger)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SetShipping handles POST /api/checkout/shipping requests.
func (h *CheckoutHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req model.ShippingDetails
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	state, err := h.checkout.SetShipping(r.Context(), userID, req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// SetPayment handles POST /api/checkout/payment requests.
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req model.PaymentDetails
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	state, err := h.checkout.SetPayment(r.Context(), userID, req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Next handles POST /api/checkout/next requests.
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	state, err := h.checkout.Next(r.Context(), userID)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Back handles POST /api/checkout/back requests.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	var req struct {
		Step string `json:"step"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	state, err := h.checkout.Back(r.Context(), userID, req.Step)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Complete handles POST /api/checkout/complete requests.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	order, err := h.checkout.Complete(r.Context(), userID, middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// Restart handles POST /api/checkout/restart requests, beginning a fresh
// attempt after a confirmation.
func (h *CheckoutHandler) Restart(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.checkout.Restart(r.Context(), userID))
}
