package handler

import (
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/rs/zerolog"
)

// AchievementHandler handles achievement HTTP requests.
type AchievementHandler struct {
	service service.AchievementService
	logger  zerolog.Logger
}

// NewAchievementHandler creates a new achievement handler.
func NewAchievementHandler(service service.AchievementService, logger zerolog.Logger) *AchievementHandler {
	return &AchievementHandler{
		service: service,
		logger:  logger.With().Str("handler", "achievement").Logger(),
	}
}

// List handles GET /api/achievements requests.
func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	achievements, err := h.service.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, achievements)
}
