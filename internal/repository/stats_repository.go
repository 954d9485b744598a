package repository

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// statsRepository implements the StatsRepository interface using PostgreSQL.
type statsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStatsRepository creates a new PostgreSQL-backed stats repository.
func NewStatsRepository(pool *pgxpool.Pool, logger zerolog.Logger) StatsRepository {
	return &statsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "stats").Logger(),
	}
}

// Get retrieves a user's stats. A user with no row yet gets a zero-valued
// record rather than an error, since every user conceptually has a ledger.
func (r *statsRepository) Get(ctx context.Context, userID string) (*model.UserStats, error) {
	query := `
		SELECT user_id, points, total_spent, total_saved, current_streak, longest_streak, last_purchase_date
		FROM user_stats
		WHERE user_id = $1
	`

	var s model.UserStats
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.Points, &s.TotalSpent, &s.TotalSaved,
		&s.CurrentStreak, &s.LongestStreak, &s.LastPurchaseDate,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &model.UserStats{UserID: userID}, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query stats")
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	return &s, nil
}

// EnsureUser records the user's identity for leaderboard display.
func (r *statsRepository) EnsureUser(ctx context.Context, userID, email string) error {
	query := `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email
	`

	if _, err := r.pool.Exec(ctx, query, userID, email); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert user")
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// Leaderboard retrieves the top point holders, highest first, with streaks
// breaking point ties. Ranks are dense and assigned in result order.
func (r *statsRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, COALESCE(u.email, ''), s.points, s.current_streak
		FROM user_stats s
		LEFT JOIN users u ON u.id = s.user_id
		ORDER BY s.points DESC, s.current_streak DESC, s.user_id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query leaderboard")
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Email, &e.Points, &e.CurrentStreak); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan leaderboard row")
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating leaderboard rows")
		return nil, fmt.Errorf("error iterating leaderboard: %w", err)
	}

	return entries, nil
}
