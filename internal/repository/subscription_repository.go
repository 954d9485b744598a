package repository

import (
	"context"
	"fmt"
	"time"

	"spendly/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// subscriptionRepository implements the SubscriptionRepository interface
// using PostgreSQL.
type subscriptionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSubscriptionRepository creates a new PostgreSQL-backed subscription
// repository.
func NewSubscriptionRepository(pool *pgxpool.Pool, logger zerolog.Logger) SubscriptionRepository {
	return &subscriptionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "subscription").Logger(),
	}
}

// Get retrieves a user's subscription record.
func (r *subscriptionRepository) Get(ctx context.Context, userID string) (*model.Subscription, error) {
	query := `
		SELECT user_id, status, stripe_subscription_id, stripe_customer_id, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
	`

	var s model.Subscription
	var status string
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &status, &s.StripeSubscriptionID, &s.StripeCustomerID,
		&s.CurrentPeriodEnd, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query subscription")
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}
	s.Status = model.SubscriptionStatus(status)

	return &s, nil
}

// Replace deletes any existing record for the user and inserts the given one
// in a single transaction, so webhook redeliveries converge on one row.
func (r *subscriptionRepository) Replace(ctx context.Context, sub *model.Subscription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `
		DELETE FROM subscriptions WHERE user_id = $1
	`, sub.UserID); err != nil {
		r.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("failed to delete old subscription")
		return fmt.Errorf("failed to delete old subscription: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO subscriptions (user_id, status, stripe_subscription_id, stripe_customer_id, current_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sub.UserID, string(sub.Status), sub.StripeSubscriptionID, sub.StripeCustomerID,
		sub.CurrentPeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	); err != nil {
		r.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("failed to insert subscription")
		return fmt.Errorf("failed to insert subscription: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", sub.UserID).Msg("failed to commit transaction")
		return fmt.Errorf("failed to replace subscription: %w", err)
	}

	r.logger.Info().
		Str("user_id", sub.UserID).
		Str("status", string(sub.Status)).
		Msg("subscription replaced")
	return nil
}

// UpdateStatus updates status and period end for a user's record.
func (r *subscriptionRepository) UpdateStatus(ctx context.Context, userID string, status model.SubscriptionStatus, periodEnd time.Time) error {
	if _, err := r.pool.Exec(ctx, `
		UPDATE subscriptions
		SET status = $2, current_period_end = $3, updated_at = NOW()
		WHERE user_id = $1
	`, userID, string(status), periodEnd); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to update subscription status")
		return fmt.Errorf("failed to update subscription status: %w", err)
	}

	r.logger.Info().
		Str("user_id", userID).
		Str("status", string(status)).
		Msg("subscription status updated")
	return nil
}

// Delete removes a user's subscription record.
func (r *subscriptionRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `
		DELETE FROM subscriptions WHERE user_id = $1
	`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete subscription")
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	r.logger.Info().Str("user_id", userID).Msg("subscription deleted")
	return nil
}
