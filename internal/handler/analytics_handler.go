package handler

import (
	"net/http"

	"spendly/internal/analytics"
	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// AnalyticsHandler handles spending insight HTTP requests.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("handler", "analytics").Logger(),
	}
}

// Snapshot handles GET /api/analytics?timeframe=week|month|year requests.
func (h *AnalyticsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	timeframe := analytics.Timeframe(r.URL.Query().Get("timeframe"))
	if timeframe == "" {
		timeframe = analytics.TimeframeMonth
	}

	snapshot, err := h.service.Snapshot(r.Context(), middleware.UserID(r.Context()), timeframe)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
