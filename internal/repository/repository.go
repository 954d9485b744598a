package repository

import (
	"context"
	"time"

	"spendly/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products with pagination, optionally filtered by
	// category.
	List(ctx context.Context, limit, offset int, category string) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Categories retrieves the distinct category labels in the catalog.
	Categories(ctx context.Context) ([]model.Category, error)

	// Upsert inserts or replaces the given products, for catalog seeding.
	Upsert(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access. CreateOrder
// carries the server-side acceptance rule: budget/points sufficiency and the
// balance debit happen inside one transaction with the insert, so callers
// only ever observe success or a rejection.
type OrderRepository interface {
	// CreateOrder atomically checks funds, inserts the order and settles the
	// user's gamification ledger. Rejections surface as *model.DomainError.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order by its ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders created in [since, until],
	// newest first.
	ListByUser(ctx context.Context, userID string, since, until time.Time) ([]model.Order, error)

	// SpentInMonth sums a user's order totals for the month containing at.
	SpentInMonth(ctx context.Context, userID string, at time.Time) (float64, error)

	// RecentPurchases retrieves the most recent orders across all users.
	RecentPurchases(ctx context.Context, limit int) ([]model.Order, error)

	// MostPurchasedProducts ranks products by purchased quantity.
	MostPurchasedProducts(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error)
}

// BudgetRepository defines the interface for monthly budget access.
type BudgetRepository interface {
	// GetCurrent retrieves the budget for the given month ("2006-01").
	// Returns nil when none is configured.
	GetCurrent(ctx context.Context, userID, month string) (*model.Budget, error)

	// Upsert creates or replaces the budget for a month.
	Upsert(ctx context.Context, budget *model.Budget) error
}

// StatsRepository defines the interface for the gamification ledger.
type StatsRepository interface {
	// Get retrieves a user's stats, returning a zero-valued row when the
	// user has none yet.
	Get(ctx context.Context, userID string) (*model.UserStats, error)

	// EnsureUser records the user's identity for leaderboard display.
	EnsureUser(ctx context.Context, userID, email string) error

	// Leaderboard retrieves the top point holders with user info.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// WishlistRepository defines the interface for wishlist access.
type WishlistRepository interface {
	// ListByUser retrieves a user's wishlists, oldest first.
	ListByUser(ctx context.Context, userID string) ([]model.Wishlist, error)

	// GetByID retrieves a wishlist by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Wishlist, error)

	// Create inserts a new wishlist.
	Create(ctx context.Context, wishlist *model.Wishlist) error

	// SetPublic toggles a wishlist's public flag.
	SetPublic(ctx context.Context, id uuid.UUID, public bool) error

	// ListItems retrieves a wishlist's items, oldest first.
	ListItems(ctx context.Context, wishlistID uuid.UUID) ([]model.WishlistItem, error)

	// AddItem inserts a wishlist item.
	AddItem(ctx context.Context, item *model.WishlistItem) error

	// RemoveItem deletes a wishlist item.
	RemoveItem(ctx context.Context, id uuid.UUID) error
}

// AchievementRepository defines the interface for the achievement catalog
// and the per-user earned join.
type AchievementRepository interface {
	// ListForUser retrieves the full catalog with EarnedAt filled in for
	// entries the user has unlocked.
	ListForUser(ctx context.Context, userID string) ([]model.Achievement, error)
}

// SubscriptionRepository defines the interface for the locally synced
// subscription records maintained by the billing webhook.
type SubscriptionRepository interface {
	// Get retrieves a user's subscription. Returns nil when absent.
	Get(ctx context.Context, userID string) (*model.Subscription, error)

	// Replace deletes any existing record for the user and inserts the
	// given one, in a single transaction. Idempotent under redelivery.
	Replace(ctx context.Context, sub *model.Subscription) error

	// UpdateStatus updates status and period end for a user's record.
	UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus, periodEnd time.Time) error

	// Delete removes a user's subscription record. Deleting an absent
	// record is not an error.
	Delete(ctx context.Context, userID string) error
}
