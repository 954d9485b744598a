package service

import (
	"context"

	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// achievementService implements the AchievementService interface.
type achievementService struct {
	repo   repository.AchievementRepository
	logger zerolog.Logger
}

// NewAchievementService creates a new achievement service.
func NewAchievementService(repo repository.AchievementRepository, logger zerolog.Logger) AchievementService {
	return &achievementService{
		repo:   repo,
		logger: logger.With().Str("service", "achievement").Logger(),
	}
}

// List retrieves the achievement catalog with the user's earned dates.
func (s *achievementService) List(ctx context.Context, userID string) ([]model.Achievement, error) {
	return s.repo.ListForUser(ctx, userID)
}
