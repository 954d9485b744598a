package service

import (
	"context"

	"spendly/internal/cart"
	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements the CartService interface on top of the per-user
// cart engines.
type cartService struct {
	carts    *cart.Manager
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts *cart.Manager, products repository.ProductRepository, logger zerolog.Logger) CartService {
	return &cartService{
		carts:    carts,
		products: products,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) summary(engine *cart.Engine) *CartSummary {
	return &CartSummary{
		Items:        engine.Items(),
		TotalItems:   engine.TotalItemCount(),
		TotalPrice:   engine.TotalPrice(),
		TotalSavings: engine.TotalSavings(),
	}
}

// Summary returns the cart contents with derived totals.
func (s *cartService) Summary(ctx context.Context, userID string) (*CartSummary, error) {
	return s.summary(s.carts.Get(userID)), nil
}

// Add puts one unit of the product in the cart.
func (s *cartService) Add(ctx context.Context, userID, productID string) (*CartSummary, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	engine := s.carts.Get(userID)
	engine.AddItem(*product)
	return s.summary(engine), nil
}

// Remove deletes the product's line from the cart. Removing an absent line
// is a no-op.
func (s *cartService) Remove(ctx context.Context, userID, productID string) (*CartSummary, error) {
	engine := s.carts.Get(userID)
	engine.RemoveItem(productID)
	return s.summary(engine), nil
}

// SetQuantity sets a line's quantity exactly. Zero removes the line.
func (s *cartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*CartSummary, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}

	engine := s.carts.Get(userID)
	engine.SetQuantity(productID, quantity)
	return s.summary(engine), nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	s.carts.Get(userID).Clear()
	return nil
}

// Reset discards the user's engine and durable snapshot on sign-out.
func (s *cartService) Reset(ctx context.Context, userID string) error {
	s.carts.Reset(userID)
	s.logger.Debug().Str("user_id", userID).Msg("cart reset")
	return nil
}
