package service

import (
	"context"
	"time"

	"spendly/internal/model"
	"spendly/internal/repository"

	"github.com/rs/zerolog"
)

// budgetService implements the BudgetService interface.
type budgetService struct {
	budgets repository.BudgetRepository
	orders  repository.OrderRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewBudgetService creates a new budget service.
func NewBudgetService(budgets repository.BudgetRepository, orders repository.OrderRepository, logger zerolog.Logger) BudgetService {
	return &budgetService{
		budgets: budgets,
		orders:  orders,
		logger:  logger.With().Str("service", "budget").Logger(),
		now:     time.Now,
	}
}

// Current retrieves this month's budget, nil when unset.
func (s *budgetService) Current(ctx context.Context, userID string) (*model.Budget, error) {
	return s.budgets.GetCurrent(ctx, userID, s.now().Format("2006-01"))
}

// Remaining computes this month's budget minus completed spending. An unset
// budget is BUDGET_NOT_CONFIGURED.
func (s *budgetService) Remaining(ctx context.Context, userID string) (*model.RemainingBudget, error) {
	now := s.now()

	budget, err := s.budgets.GetCurrent(ctx, userID, now.Format("2006-01"))
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, model.ErrBudgetNotConfigured
	}

	spent, err := s.orders.SpentInMonth(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	return &model.RemainingBudget{
		Amount:    budget.Amount,
		Spent:     spent,
		Remaining: budget.Amount - spent,
	}, nil
}

// Set creates or replaces this month's budget.
func (s *budgetService) Set(ctx context.Context, userID string, amount float64) (*model.Budget, error) {
	if amount < 0 {
		return nil, model.NewDomainError(model.ErrCodeInvalidJSON, "Budget amount cannot be negative")
	}

	budget := &model.Budget{
		UserID: userID,
		Amount: amount,
		Month:  s.now().Format("2006-01"),
	}
	if err := s.budgets.Upsert(ctx, budget); err != nil {
		return nil, err
	}
	return budget, nil
}
