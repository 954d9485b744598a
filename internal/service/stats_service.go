package service

import (
	"context"

	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// statsService implements the StatsService interface.
type statsService struct {
	repo   repository.StatsRepository
	logger zerolog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(repo repository.StatsRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger.With().Str("service", "stats").Logger(),
	}
}

// Stats retrieves the user's points, totals and streaks.
func (s *statsService) Stats(ctx context.Context, userID string) (*model.UserStats, error) {
	return s.repo.Get(ctx, userID)
}

const defaultLeaderboardSize = 10

// Leaderboard retrieves the ranked top point holders.
func (s *statsService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	return s.repo.Leaderboard(ctx, limit)
}
