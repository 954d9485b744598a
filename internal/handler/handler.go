package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"spendly/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// statusForCode maps a domain error code to its HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound, model.ErrCodeWishlistNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeSubscriptionRequired:
		return http.StatusPaymentRequired
	case model.ErrCodeCheckoutSubmitted:
		return http.StatusConflict
	case model.ErrCodeInsufficientFunds, model.ErrCodeBudgetNotConfigured, model.ErrCodeEmptyCart:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidJSON, model.ErrCodeInvalidQuantity, model.ErrCodeInvalidTrigger,
		model.ErrCodeIncompleteShipping, model.ErrCodeIncompletePayment:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError maps the error to a status and writes the standard error body.
// Non-domain errors come out as an opaque 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error().Str("code", domainErr.Code).Str("error", domainErr.Message).Msg("handler error")
		} else {
			logger.Debug().Str("code", domainErr.Code).Str("error", domainErr.Message).Msg("request rejected")
		}
		writeJSON(w, status, model.ErrorResponse{Error: domainErr.Code, Message: domainErr.Message})
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "An internal error occurred",
	})
}

// writeMethodNotAllowed writes a 405 for unsupported verbs.
func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{
		Error:   model.ErrCodeInvalidJSON,
		Message: "Method not allowed",
	})
}

// writeBadRequest writes a 400 with the given message.
func writeBadRequest(w http.ResponseWriter, message string, logger zerolog.Logger) {
	writeError(w, model.NewDomainError(model.ErrCodeInvalidJSON, message), logger)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "Invalid request body")
	}
	return nil
}
