package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spendly/internal/analytics"
	"spendly/internal/billing"
	"spendly/internal/middleware"
	"spendly/internal/model"
	"spendly/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

// authedRequest builds a request carrying a valid bearer token for user u1.
func authedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"email": "u1@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// serveAuthed runs the handler behind the bearer auth middleware, the same
// way the router wires it.
func serveAuthed(t *testing.T, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	middleware.BearerAuth(testJWTSecret, zerolog.Nop())(h).ServeHTTP(rec, req)
	return rec
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, limit, offset int, category string) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockProductService) FlashDeals(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) SeedCatalog(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Summary(ctx context.Context, userID string) (*service.CartSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartSummary), args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, userID, productID string) (*service.CartSummary, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartSummary), args.Error(1)
}

func (m *MockCartService) Remove(ctx context.Context, userID, productID string) (*service.CartSummary, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartSummary), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*service.CartSummary, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartSummary), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartService) Reset(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) State(ctx context.Context, userID string) *service.CheckoutState {
	args := m.Called(ctx, userID)
	return args.Get(0).(*service.CheckoutState)
}

func (m *MockCheckoutService) SelectTrigger(ctx context.Context, userID string, trigger model.EmotionalTrigger) (*service.CheckoutState, error) {
	args := m.Called(ctx, userID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutState), args.Error(1)
}

func (m *MockCheckoutService) SetShipping(ctx context.Context, userID string, shipping model.ShippingDetails) (*service.CheckoutState, error) {
	args := m.Called(ctx, userID, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutState), args.Error(1)
}

func (m *MockCheckoutService) SetPayment(ctx context.Context, userID string, payment model.PaymentDetails) (*service.CheckoutState, error) {
	args := m.Called(ctx, userID, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutState), args.Error(1)
}

func (m *MockCheckoutService) Next(ctx context.Context, userID string) (*service.CheckoutState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutState), args.Error(1)
}

func (m *MockCheckoutService) Back(ctx context.Context, userID, step string) (*service.CheckoutState, error) {
	args := m.Called(ctx, userID, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutState), args.Error(1)
}

func (m *MockCheckoutService) Complete(ctx context.Context, userID, email string) (*model.Order, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockCheckoutService) Restart(ctx context.Context, userID string) *service.CheckoutState {
	args := m.Called(ctx, userID)
	return args.Get(0).(*service.CheckoutState)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) RecentPurchases(ctx context.Context, limit int) ([]model.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) MostPurchased(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductPurchaseCount), args.Error(1)
}

// MockSubscriptionService is a mock implementation of SubscriptionService.
type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) RequireActive(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSubscriptionService) Status(ctx context.Context, userID string) (*billing.SubscriptionState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionState), args.Error(1)
}

func (m *MockSubscriptionService) StartCheckout(ctx context.Context, userID, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockSubscriptionService) Portal(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockSubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

// MockAnalyticsService is a mock implementation of AnalyticsService.
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Snapshot(ctx context.Context, userID string, timeframe analytics.Timeframe) (*analytics.Snapshot, error) {
	args := m.Called(ctx, userID, timeframe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Snapshot), args.Error(1)
}
