package handler

import (
	"net/http"
	"strconv"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// StatsHandler handles gamification ledger HTTP requests.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("handler", "stats").Logger(),
	}
}

// Get handles GET /api/stats requests.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	stats, err := h.service.Stats(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Leaderboard handles GET /api/leaderboard requests.
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
