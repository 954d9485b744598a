package repository

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// wishlistRepository implements the WishlistRepository interface using
// PostgreSQL.
type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

// ListByUser retrieves a user's wishlists, oldest first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Wishlist, error) {
	query := `
		SELECT id, user_id, name, is_public, created_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query wishlists")
		return nil, fmt.Errorf("failed to query wishlists: %w", err)
	}
	defer rows.Close()

	var wishlists []model.Wishlist
	for rows.Next() {
		var w model.Wishlist
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.IsPublic, &w.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wishlist row")
			return nil, fmt.Errorf("failed to scan wishlist: %w", err)
		}
		wishlists = append(wishlists, w)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating wishlist rows")
		return nil, fmt.Errorf("error iterating wishlists: %w", err)
	}

	return wishlists, nil
}

// GetByID retrieves a wishlist by ID.
func (r *wishlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Wishlist, error) {
	query := `
		SELECT id, user_id, name, is_public, created_at
		FROM wishlists
		WHERE id = $1
	`

	var w model.Wishlist
	err := r.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.UserID, &w.Name, &w.IsPublic, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("wishlist_id", id.String()).Msg("wishlist not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("wishlist_id", id.String()).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}

	return &w, nil
}

// Create inserts a new wishlist.
func (r *wishlistRepository) Create(ctx context.Context, wishlist *model.Wishlist) error {
	query := `
		INSERT INTO wishlists (id, user_id, name, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query,
		wishlist.ID, wishlist.UserID, wishlist.Name, wishlist.IsPublic, wishlist.CreatedAt,
	); err != nil {
		r.logger.Error().Err(err).Str("user_id", wishlist.UserID).Msg("failed to create wishlist")
		return fmt.Errorf("failed to create wishlist: %w", err)
	}

	r.logger.Info().
		Str("wishlist_id", wishlist.ID.String()).
		Str("name", wishlist.Name).
		Msg("wishlist created")
	return nil
}

// SetPublic toggles a wishlist's public flag.
func (r *wishlistRepository) SetPublic(ctx context.Context, id uuid.UUID, public bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE wishlists SET is_public = $2 WHERE id = $1
	`, id, public)
	if err != nil {
		r.logger.Error().Err(err).Str("wishlist_id", id.String()).Msg("failed to update wishlist")
		return fmt.Errorf("failed to update wishlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWishlistNotFound
	}
	return nil
}

// ListItems retrieves a wishlist's items, oldest first.
func (r *wishlistRepository) ListItems(ctx context.Context, wishlistID uuid.UUID) ([]model.WishlistItem, error) {
	query := `
		SELECT id, wishlist_id, product_id, price_at_add, notify_on_sale, added_at
		FROM wishlist_items
		WHERE wishlist_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query, wishlistID)
	if err != nil {
		r.logger.Error().Err(err).Str("wishlist_id", wishlistID.String()).Msg("failed to query wishlist items")
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(
			&item.ID, &item.WishlistID, &item.ProductID,
			&item.PriceAtAdd, &item.NotifyOnSale, &item.AddedAt,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wishlist item row")
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating wishlist item rows")
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// AddItem inserts a wishlist item.
func (r *wishlistRepository) AddItem(ctx context.Context, item *model.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, wishlist_id, product_id, price_at_add, notify_on_sale, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.pool.Exec(ctx, query,
		item.ID, item.WishlistID, item.ProductID,
		item.PriceAtAdd, item.NotifyOnSale, item.AddedAt,
	); err != nil {
		r.logger.Error().Err(err).
			Str("wishlist_id", item.WishlistID.String()).
			Str("product_id", item.ProductID).
			Msg("failed to add wishlist item")
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// RemoveItem deletes a wishlist item.
func (r *wishlistRepository) RemoveItem(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `
		DELETE FROM wishlist_items WHERE id = $1
	`, id); err != nil {
		r.logger.Error().Err(err).Str("item_id", id.String()).Msg("failed to remove wishlist item")
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
