package service

import (
	"context"
	"time"

	"spendly/internal/analytics"
	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// analyticsService implements the AnalyticsService interface: fetch the
// timeframe's orders, then hand off to the pure aggregator.
type analyticsService struct {
	orders repository.OrderRepository
	loc    *time.Location
	logger zerolog.Logger
	now    func() time.Time
}

// NewAnalyticsService creates a new analytics service. Bucketing uses loc
// for hour and weekday boundaries.
func NewAnalyticsService(orders repository.OrderRepository, loc *time.Location, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		orders: orders,
		loc:    loc,
		logger: logger.With().Str("service", "analytics").Logger(),
		now:    time.Now,
	}
}

// Snapshot aggregates the user's orders over the timeframe.
func (s *analyticsService) Snapshot(ctx context.Context, userID string, timeframe analytics.Timeframe) (*analytics.Snapshot, error) {
	if !timeframe.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Unknown timeframe: "+string(timeframe))
	}

	now := s.now()
	orders, err := s.orders.ListByUser(ctx, userID, timeframe.Start(now), now)
	if err != nil {
		return nil, err
	}

	snapshot := analytics.Aggregate(orders, s.loc)

	s.logger.Debug().
		Str("user_id", userID).
		Str("timeframe", string(timeframe)).
		Int("orders", len(orders)).
		Msg("analytics snapshot computed")
	return &snapshot, nil
}
