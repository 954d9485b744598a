package handler

import (
	"net/http"
	"strings"

	"spendly/internal/middleware"
	"spendly/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WishlistHandler handles wishlist HTTP requests.
type WishlistHandler struct {
	service service.WishlistService
	logger  zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(service service.WishlistService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		logger:  logger.With().Str("handler", "wishlist").Logger(),
	}
}

// Collection handles /api/wishlists requests: GET lists, POST creates.
func (h *WishlistHandler) Collection(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	switch r.Method {
	case http.MethodGet:
		wishlists, err := h.service.List(r.Context(), userID)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, wishlists)

	case http.MethodPost:
		var req struct {
			Name     string `json:"name"`
			IsPublic bool   `json:"is_public"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, h.logger)
			return
		}

		wishlist, err := h.service.Create(r.Context(), userID, req.Name, req.IsPublic)
		if err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusCreated, wishlist)

	default:
		writeMethodNotAllowed(w)
	}
}

// Item routes /api/wishlists/{id}... requests: sharing toggle, item listing,
// item add and item remove.
func (h *WishlistHandler) Item(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	rest := strings.TrimPrefix(r.URL.Path, "/api/wishlists/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeBadRequest(w, "wishlist ID is required", h.logger)
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeBadRequest(w, "invalid wishlist ID", h.logger)
		return
	}

	// /api/wishlists/{id}/sharing
	if len(parts) == 2 && parts[1] == "sharing" && r.Method == http.MethodPut {
		var req struct {
			IsPublic bool `json:"is_public"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, h.logger)
			return
		}
		if err := h.service.SetPublic(r.Context(), userID, id, req.IsPublic); err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"is_public": req.IsPublic})
		return
	}

	// /api/wishlists/{id}/items
	if len(parts) == 2 && parts[1] == "items" {
		switch r.Method {
		case http.MethodGet:
			items, err := h.service.Items(r.Context(), userID, id)
			if err != nil {
				writeError(w, err, h.logger)
				return
			}
			writeJSON(w, http.StatusOK, items)

		case http.MethodPost:
			var req struct {
				ProductID    string `json:"product_id"`
				NotifyOnSale bool   `json:"notify_on_sale"`
			}
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, err, h.logger)
				return
			}
			if req.ProductID == "" {
				writeBadRequest(w, "product_id is required", h.logger)
				return
			}

			item, err := h.service.AddItem(r.Context(), userID, &id, req.ProductID, req.NotifyOnSale)
			if err != nil {
				writeError(w, err, h.logger)
				return
			}
			writeJSON(w, http.StatusCreated, item)

		default:
			writeMethodNotAllowed(w)
		}
		return
	}

	// /api/wishlists/{id}/items/{itemID}
	if len(parts) == 3 && parts[1] == "items" && r.Method == http.MethodDelete {
		itemID, err := uuid.Parse(parts[2])
		if err != nil {
			writeBadRequest(w, "invalid item ID", h.logger)
			return
		}
		if err := h.service.RemoveItem(r.Context(), userID, id, itemID); err != nil {
			writeError(w, err, h.logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
		return
	}

	writeBadRequest(w, "unknown wishlist route", h.logger)
}

// QuickAdd handles POST /api/wishlist/items requests, adding to the lazily
// created Default list.
func (h *WishlistHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		ProductID    string `json:"product_id"`
		NotifyOnSale bool   `json:"notify_on_sale"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeBadRequest(w, "product_id is required", h.logger)
		return
	}

	item, err := h.service.AddItem(r.Context(), middleware.UserID(r.Context()), nil, req.ProductID, req.NotifyOnSale)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}
