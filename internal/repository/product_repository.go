package repository

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, price, image, category, is_flash_deal, discount_percentage, flash_deal_end, created_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category,
		&p.IsFlashDeal, &p.DiscountPercentage, &p.FlashDealEnd, &p.CreatedAt,
	)
}

// List retrieves products with pagination, optionally filtered by category.
func (r *productRepository) List(ctx context.Context, limit, offset int, category string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($3 = '' OR category = $3)
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset, category)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Str("category", category).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Categories retrieves the distinct category labels in the catalog.
func (r *productRepository) Categories(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT DISTINCT category
		FROM products
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, model.Category{ID: name, Name: name})
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Upsert inserts or replaces the given products, for catalog seeding.
func (r *productRepository) Upsert(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			category = EXCLUDED.category,
			is_flash_deal = EXCLUDED.is_flash_deal,
			discount_percentage = EXCLUDED.discount_percentage,
			flash_deal_end = EXCLUDED.flash_deal_end
	`

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(query,
			p.ID, p.Name, p.Description, p.Price, p.Image, p.Category,
			p.IsFlashDeal, p.DiscountPercentage, p.FlashDealEnd, p.CreatedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range products {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("product_id", products[i].ID).
				Msg("failed to upsert product")
			return fmt.Errorf("failed to upsert product %s: %w", products[i].ID, err)
		}
	}

	r.logger.Info().Int("count", len(products)).Msg("products upserted")
	return nil
}
