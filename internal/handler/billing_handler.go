package handler

import (
	"io"
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// Stripe webhook payloads are small; cap reads defensively against junk.
const maxWebhookBody = 64 * 1024

// BillingHandler handles subscription billing HTTP requests.
type BillingHandler struct {
	service service.SubscriptionService
	logger  zerolog.Logger
}

// NewBillingHandler creates a new billing handler.
func NewBillingHandler(service service.SubscriptionService, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{
		service: service,
		logger:  logger.With().Str("handler", "billing").Logger(),
	}
}

// Subscription handles GET /api/billing/subscription requests.
func (h *BillingHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	state, err := h.service.Status(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// CheckoutSession handles POST /api/billing/checkout-session requests.
func (h *BillingHandler) CheckoutSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	url, err := h.service.StartCheckout(r.Context(), middleware.UserID(r.Context()), middleware.UserEmail(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// PortalSession handles POST /api/billing/portal-session requests.
func (h *BillingHandler) PortalSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	url, err := h.service.Portal(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Webhook handles POST /api/billing/webhook requests from Stripe. The
// delivery authenticates with the Stripe-Signature header, not a bearer
// token.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeBadRequest(w, "failed to read webhook payload", h.logger)
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		h.logger.Error().Err(err).Msg("webhook processing failed")
		writeBadRequest(w, "webhook rejected", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
