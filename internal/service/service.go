package service

import (
	"context"

	"spendly/internal/analytics"
	"spendly/internal/billing"
	"spendly/internal/model"

	"github.com/google/uuid"
)

// ProductService defines the interface for catalog business logic.
type ProductService interface {
	// ListProducts retrieves products with pagination, optionally filtered
	// by category.
	ListProducts(ctx context.Context, limit, offset int, category string) ([]model.Product, error)

	// GetProduct retrieves one product. Absent products surface as
	// *model.DomainError with code PRODUCT_NOT_FOUND.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// ListCategories retrieves the distinct catalog categories.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// FlashDeals retrieves products whose flash deal is active right now.
	FlashDeals(ctx context.Context) ([]model.Product, error)

	// SeedCatalog loads the product seed from the configured source and
	// upserts it, returning the number of products applied.
	SeedCatalog(ctx context.Context) (int, error)
}

// CartService defines the interface for per-user cart operations.
type CartService interface {
	// Summary returns the cart contents with derived totals.
	Summary(ctx context.Context, userID string) (*CartSummary, error)

	// Add puts one unit of the product in the cart, incrementing quantity
	// when it is already present.
	Add(ctx context.Context, userID, productID string) (*CartSummary, error)

	// Remove deletes the product's line from the cart.
	Remove(ctx context.Context, userID, productID string) (*CartSummary, error)

	// SetQuantity sets a line's quantity exactly. Zero removes the line;
	// negatives are rejected with INVALID_QUANTITY.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*CartSummary, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID string) error

	// Reset discards the user's cart engine and durable snapshot. Called
	// when the authenticated identity signs out.
	Reset(ctx context.Context, userID string) error
}

// CartSummary is the cart read model: contents plus derived totals,
// recomputed on every call.
type CartSummary struct {
	Items        []model.CartItem `json:"items"`
	TotalItems   int              `json:"total_items"`
	TotalPrice   float64          `json:"total_price"`
	TotalSavings float64          `json:"total_savings"`
}

// CheckoutState is the checkout read model surfaced to the client.
type CheckoutState struct {
	Step        string                 `json:"step"`
	Trigger     model.EmotionalTrigger `json:"trigger,omitempty"`
	OrderNumber string                 `json:"order_number,omitempty"`
}

// CheckoutService drives the per-user checkout state machine.
type CheckoutService interface {
	// State returns the user's current checkout position, starting a fresh
	// attempt if none is underway.
	State(ctx context.Context, userID string) *CheckoutState

	// SelectTrigger records the emotional check-in answer.
	SelectTrigger(ctx context.Context, userID string, trigger model.EmotionalTrigger) (*CheckoutState, error)

	// SetShipping records the shipping form.
	SetShipping(ctx context.Context, userID string, shipping model.ShippingDetails) (*CheckoutState, error)

	// SetPayment records the payment form.
	SetPayment(ctx context.Context, userID string, payment model.PaymentDetails) (*CheckoutState, error)

	// Next advances one step forward, enforcing the transition guards.
	Next(ctx context.Context, userID string) (*CheckoutState, error)

	// Back navigates to an earlier step without side effects.
	Back(ctx context.Context, userID, step string) (*CheckoutState, error)

	// Complete submits the order: funds check, atomic insert, async
	// notification, cart clear, advance to Confirmation.
	Complete(ctx context.Context, userID, email string) (*model.Order, error)

	// Restart abandons the current attempt and starts a fresh machine.
	Restart(ctx context.Context, userID string) *CheckoutState
}

// OrderService defines the interface for order reads.
type OrderService interface {
	// GetOrder retrieves one of the user's orders. Another user's order is
	// ORDER_NOT_FOUND, not forbidden, so ids cannot be probed.
	GetOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error)

	// ListOrders retrieves the user's order history, newest first.
	ListOrders(ctx context.Context, userID string) ([]model.Order, error)

	// RecentPurchases retrieves the latest orders across all users.
	RecentPurchases(ctx context.Context, limit int) ([]model.Order, error)

	// MostPurchased ranks products by purchased quantity.
	MostPurchased(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error)
}

// AnalyticsService computes spending insight snapshots.
type AnalyticsService interface {
	// Snapshot aggregates the user's orders over the timeframe
	// ("week", "month" or "year").
	Snapshot(ctx context.Context, userID string, timeframe analytics.Timeframe) (*analytics.Snapshot, error)
}

// BudgetService defines the interface for monthly budget operations.
type BudgetService interface {
	// Current retrieves this month's budget, nil when unset.
	Current(ctx context.Context, userID string) (*model.Budget, error)

	// Remaining computes this month's budget minus completed spending.
	Remaining(ctx context.Context, userID string) (*model.RemainingBudget, error)

	// Set creates or replaces this month's budget.
	Set(ctx context.Context, userID string, amount float64) (*model.Budget, error)
}

// StatsService defines the interface for the gamification ledger reads.
type StatsService interface {
	// Stats retrieves the user's points, totals and streaks.
	Stats(ctx context.Context, userID string) (*model.UserStats, error)

	// Leaderboard retrieves the ranked top point holders.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// WishlistService defines the interface for wishlist operations.
type WishlistService interface {
	// List retrieves the user's wishlists.
	List(ctx context.Context, userID string) ([]model.Wishlist, error)

	// Create adds a named wishlist for the user.
	Create(ctx context.Context, userID, name string, public bool) (*model.Wishlist, error)

	// SetPublic toggles sharing on one of the user's wishlists.
	SetPublic(ctx context.Context, userID string, id uuid.UUID, public bool) error

	// Items retrieves a wishlist's items. Private lists are only visible to
	// their owner.
	Items(ctx context.Context, userID string, id uuid.UUID) ([]model.WishlistItem, error)

	// AddItem snapshots the product's current effective price into the
	// given wishlist, or into the lazily created Default list when id is
	// nil.
	AddItem(ctx context.Context, userID string, id *uuid.UUID, productID string, notifyOnSale bool) (*model.WishlistItem, error)

	// RemoveItem deletes an item from one of the user's wishlists.
	RemoveItem(ctx context.Context, userID string, id, itemID uuid.UUID) error
}

// AchievementService defines the interface for achievement reads.
type AchievementService interface {
	// List retrieves the achievement catalog with the user's earned dates.
	List(ctx context.Context, userID string) ([]model.Achievement, error)
}

// SubscriptionService owns the billing lifecycle and the subscription gate.
type SubscriptionService interface {
	// RequireActive rejects with SUBSCRIPTION_REQUIRED unless the user has
	// an active or trialing subscription.
	RequireActive(ctx context.Context, userID string) error

	// Status merges the local subscription record with live Stripe state.
	Status(ctx context.Context, userID string) (*billing.SubscriptionState, error)

	// StartCheckout creates a Stripe checkout session and returns its URL.
	StartCheckout(ctx context.Context, userID, email string) (string, error)

	// Portal creates a billing portal session and returns its URL.
	Portal(ctx context.Context, userID string) (string, error)

	// HandleWebhook verifies and applies one Stripe webhook delivery.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}
