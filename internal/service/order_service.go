package service

import (
	"context"
	"time"

	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements the OrderService interface.
type orderService struct {
	repo   repository.OrderRepository
	logger zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		repo:   repo,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// GetOrder retrieves one of the user's orders. Orders belonging to someone
// else look identical to absent ones.
func (s *orderService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// ListOrders retrieves the user's full order history, newest first.
func (s *orderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	return s.repo.ListByUser(ctx, userID, time.Time{}, time.Now())
}

const maxFeedSize = 50

// RecentPurchases retrieves the latest orders across all users.
func (s *orderService) RecentPurchases(ctx context.Context, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > maxFeedSize {
		limit = maxFeedSize
	}
	return s.repo.RecentPurchases(ctx, limit)
}

// MostPurchased ranks products by purchased quantity.
func (s *orderService) MostPurchased(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error) {
	if limit <= 0 || limit > maxFeedSize {
		limit = maxFeedSize
	}
	return s.repo.MostPurchasedProducts(ctx, limit)
}
