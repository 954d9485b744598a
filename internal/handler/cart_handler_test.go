package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"spendly/internal/model"
	"spendly/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeSubscription() *MockSubscriptionService {
	subs := new(MockSubscriptionService)
	subs.On("RequireActive", mock.Anything, "u1").Return(nil)
	return subs
}

func lapsedSubscription() *MockSubscriptionService {
	subs := new(MockSubscriptionService)
	subs.On("RequireActive", mock.Anything, "u1").Return(model.ErrSubscriptionRequired)
	return subs
}

func TestCartHandler_Get(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockCart := new(MockCartService)
		mockCart.On("Summary", mock.Anything, "u1").Return(&service.CartSummary{
			Items:      []model.CartItem{},
			TotalItems: 0,
		}, nil)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		rec := serveAuthed(t, h.Get, authedRequest(t, http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Lapsed subscription pays 402", func(t *testing.T) {
		mockCart := new(MockCartService)

		h := NewCartHandler(mockCart, lapsedSubscription(), logger)
		rec := serveAuthed(t, h.Get, authedRequest(t, http.MethodGet, "/api/cart", nil))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		var body model.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, model.ErrCodeSubscriptionRequired, body.Error)
		mockCart.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
	})
}

func TestCartHandler_Add(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockCart := new(MockCartService)
		mockCart.On("Add", mock.Anything, "u1", "p1").Return(&service.CartSummary{TotalItems: 1}, nil)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		req := authedRequest(t, http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":"p1"}`))
		rec := serveAuthed(t, h.Add, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockCart.AssertExpectations(t)
	})

	t.Run("Missing product_id", func(t *testing.T) {
		mockCart := new(MockCartService)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		req := authedRequest(t, http.MethodPost, "/api/cart/items", strings.NewReader(`{}`))
		rec := serveAuthed(t, h.Add, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockCart := new(MockCartService)
		mockCart.On("Add", mock.Anything, "u1", "ghost").Return(nil, model.ErrProductNotFound)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		req := authedRequest(t, http.MethodPost, "/api/cart/items", strings.NewReader(`{"product_id":"ghost"}`))
		rec := serveAuthed(t, h.Add, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCartHandler_SetQuantity(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockCart := new(MockCartService)
		mockCart.On("SetQuantity", mock.Anything, "u1", "p1", 3).Return(&service.CartSummary{TotalItems: 3}, nil)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		req := authedRequest(t, http.MethodPut, "/api/cart/items/p1", strings.NewReader(`{"quantity":3}`))
		rec := serveAuthed(t, func(w http.ResponseWriter, r *http.Request) {
			h.SetQuantity(w, r, "p1")
		}, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Negative quantity", func(t *testing.T) {
		mockCart := new(MockCartService)
		mockCart.On("SetQuantity", mock.Anything, "u1", "p1", -1).Return(nil, model.ErrInvalidQuantity)

		h := NewCartHandler(mockCart, activeSubscription(), logger)
		req := authedRequest(t, http.MethodPut, "/api/cart/items/p1", strings.NewReader(`{"quantity":-1}`))
		rec := serveAuthed(t, func(w http.ResponseWriter, r *http.Request) {
			h.SetQuantity(w, r, "p1")
		}, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCartHandler_ResetSkipsTheGate(t *testing.T) {
	mockCart := new(MockCartService)
	mockCart.On("Reset", mock.Anything, "u1").Return(nil)

	// No RequireActive expectation: reset works for lapsed subscribers too.
	subs := new(MockSubscriptionService)

	h := NewCartHandler(mockCart, subs, zerolog.Nop())
	rec := serveAuthed(t, h.Reset, authedRequest(t, http.MethodPost, "/api/cart/reset", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	subs.AssertNotCalled(t, "RequireActive", mock.Anything, mock.Anything)
	mockCart.AssertExpectations(t)
}
