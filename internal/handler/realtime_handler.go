package handler

import (
	"net/http"

	"spendly/internal/middleware"
	"spendly/internal/realtime"

	"github.com/rs/zerolog"
)

// RealtimeHandler upgrades clients onto the push channel.
type RealtimeHandler struct {
	hub    *realtime.Hub
	logger zerolog.Logger
}

// NewRealtimeHandler creates a new realtime handler.
func NewRealtimeHandler(hub *realtime.Hub, logger zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:    hub,
		logger: logger.With().Str("handler", "realtime").Logger(),
	}
}

// Connect handles GET /api/realtime?topic=... requests. The user_stats topic
// is always the caller's own; shared topics are leaderboard and flash_deals.
func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	topic := r.URL.Query().Get("topic")
	switch topic {
	case realtime.TopicLeaderboard, realtime.TopicFlashDeals:
	case "", realtime.TopicUserStats:
		topic = realtime.UserTopic(middleware.UserID(r.Context()))
	default:
		writeBadRequest(w, "unknown topic", h.logger)
		return
	}

	h.hub.ServeWS(w, r, topic)
}
