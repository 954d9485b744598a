package repository

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// budgetRepository implements the BudgetRepository interface using PostgreSQL.
type budgetRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBudgetRepository creates a new PostgreSQL-backed budget repository.
func NewBudgetRepository(pool *pgxpool.Pool, logger zerolog.Logger) BudgetRepository {
	return &budgetRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "budget").Logger(),
	}
}

// GetCurrent retrieves the budget for the given month ("2006-01").
func (r *budgetRepository) GetCurrent(ctx context.Context, userID, month string) (*model.Budget, error) {
	query := `
		SELECT user_id, amount, month
		FROM user_budgets
		WHERE user_id = $1 AND month = $2
	`

	var b model.Budget
	err := r.pool.QueryRow(ctx, query, userID, month).Scan(&b.UserID, &b.Amount, &b.Month)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID).Str("month", month).Msg("no budget configured")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query budget")
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	return &b, nil
}

// Upsert creates or replaces the budget for a month.
func (r *budgetRepository) Upsert(ctx context.Context, budget *model.Budget) error {
	query := `
		INSERT INTO user_budgets (user_id, amount, month)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, month) DO UPDATE SET amount = EXCLUDED.amount
	`

	if _, err := r.pool.Exec(ctx, query, budget.UserID, budget.Amount, budget.Month); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", budget.UserID).
			Str("month", budget.Month).
			Msg("failed to upsert budget")
		return fmt.Errorf("failed to upsert budget: %w", err)
	}

	r.logger.Info().
		Str("user_id", budget.UserID).
		Str("month", budget.Month).
		Float64("amount", budget.Amount).
		Msg("budget saved")
	return nil
}
