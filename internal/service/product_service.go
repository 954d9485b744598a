package service

import (
	"context"
	"fmt"
	"time"

	"spendly/internal/catalog"
	"spendly/internal/model"
	"spendly/internal/realtime"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements the ProductService interface.
type productService struct {
	repo     repository.ProductRepository
	loader   catalog.Loader
	seedPath string
	hub      *realtime.Hub
	logger   zerolog.Logger
	now      func() time.Time
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, loader catalog.Loader, seedPath string, hub *realtime.Hub, logger zerolog.Logger) ProductService {
	return &productService{
		repo:     repo,
		loader:   loader,
		seedPath: seedPath,
		hub:      hub,
		logger:   logger.With().Str("service", "product").Logger(),
		now:      time.Now,
	}
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListProducts retrieves products with pagination.
func (s *productService) ListProducts(ctx context.Context, limit, offset int, category string) ([]model.Product, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, limit, offset, category)
}

// GetProduct retrieves one product by ID.
func (s *productService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// ListCategories retrieves the distinct catalog categories.
func (s *productService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.Categories(ctx)
}

// FlashDeals retrieves products whose flash deal is active right now. Expiry
// is evaluated at read time; no background job flips deals off.
func (s *productService) FlashDeals(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx, maxPageSize, 0, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	var deals []model.Product
	for _, p := range products {
		if p.FlashDealActive(now) {
			deals = append(deals, p)
		}
	}
	return deals, nil
}

// SeedCatalog loads the configured seed and upserts it, then announces the
// refresh on the flash_deals channel.
func (s *productService) SeedCatalog(ctx context.Context) (int, error) {
	products, err := s.loader.Load(ctx, s.seedPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog seed: %w", err)
	}

	if err := s.repo.Upsert(ctx, products); err != nil {
		return 0, err
	}

	s.hub.Publish(realtime.Message{
		Topic: realtime.TopicFlashDeals,
		Event: "catalog_updated",
	})

	s.logger.Info().Int("products", len(products)).Msg("catalog seeded")
	return len(products), nil
}
