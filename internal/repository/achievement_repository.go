package repository

import (
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// achievementRepository implements the AchievementRepository interface using
// PostgreSQL.
type achievementRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAchievementRepository creates a new PostgreSQL-backed achievement
// repository.
func NewAchievementRepository(pool *pgxpool.Pool, logger zerolog.Logger) AchievementRepository {
	return &achievementRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "achievement").Logger(),
	}
}

// ListForUser retrieves the full achievement catalog with EarnedAt filled in
// for entries the user has unlocked.
func (r *achievementRepository) ListForUser(ctx context.Context, userID string) ([]model.Achievement, error) {
	query := `
		SELECT a.id, a.name, a.description, a.icon, a.points, ua.earned_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
		ORDER BY a.points, a.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query achievements")
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Points, &a.EarnedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan achievement row")
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating achievement rows")
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}

	return achievements, nil
}
