package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"spendly/internal/cart"
	"spendly/internal/catalog"
	"spendly/internal/handler"
	"spendly/internal/model"
	"spendly/internal/notify"
	"spendly/internal/realtime"
	"spendly/internal/repository"
	"spendly/internal/router"
	"spendly/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiTestSecret = "integration-secret"

// noopMailer and staticCoach stand in for the Resend and OpenAI clients so
// the API tests never leave the process.
type noopMailer struct{}

func (noopMailer) SendOrderConfirmation(_ context.Context, _ string, _ *model.Order, _ string) error {
	return nil
}

type staticCoach struct{}

func (staticCoach) Encouragement(_ context.Context, _ model.EmotionalTrigger) string {
	return "Nice work staying mindful."
}

var (
	_ notify.Mailer = noopMailer{}
	_ notify.Coach  = staticCoach{}
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	budgetRepo := repository.NewBudgetRepository(testDB.Pool, logger)
	statsRepo := repository.NewStatsRepository(testDB.Pool, logger)
	wishlistRepo := repository.NewWishlistRepository(testDB.Pool, logger)
	achievementRepo := repository.NewAchievementRepository(testDB.Pool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(testDB.Pool, logger)

	cartStore, err := cart.NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)
	carts := cart.NewManager(cartStore, logger)

	hub := realtime.NewHub(logger)

	productService := service.NewProductService(productRepo, catalog.NewFileLoader(logger), "testdata/products.jsonl.gz", hub, logger)
	cartService := service.NewCartService(carts, productRepo, logger)
	checkoutService := service.NewCheckoutService(carts, orderRepo, statsRepo, noopMailer{}, staticCoach{}, hub, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	budgetService := service.NewBudgetService(budgetRepo, orderRepo, logger)
	statsService := service.NewStatsService(statsRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)
	achievementService := service.NewAchievementService(achievementRepo, logger)
	analyticsService := service.NewAnalyticsService(orderRepo, time.UTC, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, nil, "whsec_test", hub, logger)

	handlers := router.Handlers{
		Product:     handler.NewProductHandler(productService, logger),
		Cart:        handler.NewCartHandler(cartService, subscriptionService, logger),
		Checkout:    handler.NewCheckoutHandler(checkoutService, subscriptionService, logger),
		Order:       handler.NewOrderHandler(orderService, logger),
		Analytics:   handler.NewAnalyticsHandler(analyticsService, logger),
		Budget:      handler.NewBudgetHandler(budgetService, logger),
		Stats:       handler.NewStatsHandler(statsService, logger),
		Wishlist:    handler.NewWishlistHandler(wishlistService, logger),
		Achievement: handler.NewAchievementHandler(achievementService, logger),
		Billing:     handler.NewBillingHandler(subscriptionService, logger),
		Realtime:    handler.NewRealtimeHandler(hub, logger),
	}

	return router.New(handlers, apiTestSecret, logger)
}

// seedSubscription inserts an active subscription row so the cart and
// checkout surfaces are unlocked for the user.
func seedSubscription(t *testing.T, testDB *TestDB, userID string) {
	t.Helper()

	_, err := testDB.Pool.Exec(context.Background(), `
		INSERT INTO subscriptions (user_id, status, current_period_end)
		VALUES ($1, 'active', $2)
	`, userID, time.Now().Add(30*24*time.Hour))
	require.NoError(t, err)
}

func bearerToken(t *testing.T, userID, email string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(apiTestSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func doRequest(t *testing.T, server http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestAPI_AuthAndSubscriptionGate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)
	token := bearerToken(t, "user-1", "user-1@example.com")

	t.Run("requests without a token are rejected", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/cart", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("health check needs no token", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cart requires an active subscription", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := doRequest(t, server, http.MethodGet, "/api/cart", token, nil)
		assert.Equal(t, http.StatusPaymentRequired, w.Code)

		var body model.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, model.ErrCodeSubscriptionRequired, body.Error)
	})

	t.Run("catalog stays readable without a subscription", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		w := doRequest(t, server, http.MethodGet, "/api/products", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 5)
	})
}

func TestAPI_CheckoutFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)
	token := bearerToken(t, "user-1", "user-1@example.com")

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)
	seedSubscription(t, testDB, "user-1")
	seedBudget(t, testDB.Pool, "user-1", 500.00)

	post := func(target, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = jsonBody(body)
		}
		return doRequest(t, server, http.MethodPost, target, token, reader)
	}

	// Flash-deal shoes at 25% off plus a mug at list price.
	w := post("/api/cart/items", `{"product_id":"P003"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = post("/api/cart/items", `{"product_id":"P001"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary service.CartSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalItems)
	assert.InDelta(t, 70.00, summary.TotalPrice, 0.001)
	assert.InDelta(t, 20.00, summary.TotalSavings, 0.001)

	// Walk the four checkout steps.
	w = post("/api/checkout/trigger", `{"trigger":"planned"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = post("/api/checkout/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	var state service.CheckoutState
	require.NoError(t, json.NewDecoder(w.Body).Decode(&state))
	assert.Equal(t, "shipping", state.Step)

	w = post("/api/checkout/shipping", `{"full_name":"Test User","address":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = post("/api/checkout/next", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = post("/api/checkout/payment", `{"card_number":"4242424242424242","expiry_date":"12/30","cvv":"123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = post("/api/checkout/complete", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var order model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&order))
	assert.Contains(t, order.OrderNumber, "SPD-")
	assert.InDelta(t, 70.00, order.TotalAmount, 0.001)
	assert.Equal(t, model.TriggerPlanned, order.EmotionalTrigger)

	// The order is on record and the cart is empty again.
	w = doRequest(t, server, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []model.Order
	require.NoError(t, json.NewDecoder(w.Body).Decode(&orders))
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	w = doRequest(t, server, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 0, summary.TotalItems)

	// 70 points on the spend plus 50 for the first purchase.
	w = doRequest(t, server, http.MethodGet, "/api/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.UserStats
	require.NoError(t, json.NewDecoder(w.Body).Decode(&stats))
	assert.Equal(t, 120, stats.Points)
	assert.Equal(t, 1, stats.CurrentStreak)

	w = doRequest(t, server, http.MethodGet, "/api/budget/remaining", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var remaining model.RemainingBudget
	require.NoError(t, json.NewDecoder(w.Body).Decode(&remaining))
	assert.InDelta(t, 70.00, remaining.Spent, 0.001)
	assert.InDelta(t, 430.00, remaining.Remaining, 0.001)

	w = doRequest(t, server, http.MethodGet, "/api/achievements", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var achievements []model.Achievement
	require.NoError(t, json.NewDecoder(w.Body).Decode(&achievements))
	earned := 0
	for _, a := range achievements {
		if a.EarnedAt != nil {
			earned++
			assert.Equal(t, model.AchievementFirstPurchase, a.ID)
		}
	}
	assert.Equal(t, 1, earned)
}

func TestAPI_CheckoutRejectsOverspend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)
	token := bearerToken(t, "user-1", "user-1@example.com")

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)
	seedSubscription(t, testDB, "user-1")
	seedBudget(t, testDB.Pool, "user-1", 30.00)

	post := func(target, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = jsonBody(body)
		}
		return doRequest(t, server, http.MethodPost, target, token, reader)
	}

	require.Equal(t, http.StatusOK, post("/api/cart/items", `{"product_id":"P003"}`).Code)
	require.Equal(t, http.StatusOK, post("/api/checkout/trigger", `{"trigger":"stress"}`).Code)
	require.Equal(t, http.StatusOK, post("/api/checkout/next", "").Code)
	require.Equal(t, http.StatusOK, post("/api/checkout/shipping", `{"full_name":"Test User","address":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701"}`).Code)
	require.Equal(t, http.StatusOK, post("/api/checkout/next", "").Code)
	require.Equal(t, http.StatusOK, post("/api/checkout/payment", `{"card_number":"4242424242424242","expiry_date":"12/30","cvv":"123"}`).Code)

	w := post("/api/checkout/complete", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, model.ErrCodeInsufficientFunds, body.Error)

	// The rejected cart survives for another attempt.
	w = doRequest(t, server, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary service.CartSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1, summary.TotalItems)
}

func TestAPI_Wishlists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)
	token := bearerToken(t, "user-1", "user-1@example.com")

	CleanupDB(t, testDB.Pool)
	SeedProducts(t, testDB.Pool)

	// Quick add lazily creates the default list.
	w := doRequest(t, server, http.MethodPost, "/api/wishlist/items", token, jsonBody(`{"product_id":"P003","notify_on_sale":true}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var item model.WishlistItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&item))
	assert.Equal(t, "P003", item.ProductID)
	assert.InDelta(t, 60.00, item.PriceAtAdd, 0.001)

	w = doRequest(t, server, http.MethodGet, "/api/wishlists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lists []model.Wishlist
	require.NoError(t, json.NewDecoder(w.Body).Decode(&lists))
	require.Len(t, lists, 1)
	assert.Equal(t, model.DefaultWishlistName, lists[0].Name)

	// A private list is invisible to other users until shared.
	otherToken := bearerToken(t, "user-2", "user-2@example.com")
	w = doRequest(t, server, http.MethodGet, "/api/wishlists/"+lists[0].ID.String()+"/items", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, server, http.MethodPut, "/api/wishlists/"+lists[0].ID.String()+"/sharing", token, jsonBody(`{"is_public":true}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/api/wishlists/"+lists[0].ID.String()+"/items", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.WishlistItem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&items))
	assert.Len(t, items, 1)
}
