package service

import (
	"context"
	"time"

	"spendly/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, limit, offset int, category string) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockProductRepository) Upsert(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, since, until time.Time) ([]model.Order, error) {
	args := m.Called(ctx, userID, since, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) SpentInMonth(ctx context.Context, userID string, at time.Time) (float64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockOrderRepository) RecentPurchases(ctx context.Context, limit int) ([]model.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) MostPurchasedProducts(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductPurchaseCount), args.Error(1)
}

// MockBudgetRepository is a mock implementation of BudgetRepository.
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) GetCurrent(ctx context.Context, userID, month string) (*model.Budget, error) {
	args := m.Called(ctx, userID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Upsert(ctx context.Context, budget *model.Budget) error {
	args := m.Called(ctx, budget)
	return args.Error(0)
}

// MockStatsRepository is a mock implementation of StatsRepository.
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStats), args.Error(1)
}

func (m *MockStatsRepository) EnsureUser(ctx context.Context, userID, email string) error {
	args := m.Called(ctx, userID, email)
	return args.Error(0)
}

func (m *MockStatsRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

// MockWishlistRepository is a mock implementation of WishlistRepository.
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Wishlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Wishlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) Create(ctx context.Context, wishlist *model.Wishlist) error {
	args := m.Called(ctx, wishlist)
	return args.Error(0)
}

func (m *MockWishlistRepository) SetPublic(ctx context.Context, id uuid.UUID, public bool) error {
	args := m.Called(ctx, id, public)
	return args.Error(0)
}

func (m *MockWishlistRepository) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]model.WishlistItem, error) {
	args := m.Called(ctx, wishlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WishlistItem), args.Error(1)
}

func (m *MockWishlistRepository) AddItem(ctx context.Context, item *model.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) RemoveItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAchievementRepository is a mock implementation of AchievementRepository.
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) ListForUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Achievement), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Replace(ctx context.Context, sub *model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus, periodEnd time.Time) error {
	args := m.Called(ctx, userID, status, periodEnd)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCatalogLoader is a mock implementation of catalog.Loader.
type MockCatalogLoader struct {
	mock.Mock
}

func (m *MockCatalogLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	args := m.Called(ctx, filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// memCartStore is an in-memory cart.Store for tests.
type memCartStore struct {
	data map[string][]model.CartItem
}

func newMemCartStore() *memCartStore {
	return &memCartStore{data: make(map[string][]model.CartItem)}
}

func (s *memCartStore) Load(key string) ([]model.CartItem, error) {
	return s.data[key], nil
}

func (s *memCartStore) Save(key string, items []model.CartItem) error {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	s.data[key] = out
	return nil
}

func (s *memCartStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

// stubCoach returns a canned coaching note.
type stubCoach struct {
	note string
}

func (c *stubCoach) Encouragement(ctx context.Context, trigger model.EmotionalTrigger) string {
	return c.note
}

// stubMailer records deliveries and signals each send on a channel so tests
// can wait for the async notification without sleeping.
type stubMailer struct {
	sent chan string
	err  error
}

func newStubMailer() *stubMailer {
	return &stubMailer{sent: make(chan string, 1)}
}

func (m *stubMailer) SendOrderConfirmation(ctx context.Context, to string, order *model.Order, encouragement string) error {
	m.sent <- encouragement
	return m.err
}
