package service

import (
	"context"
	"testing"
	"time"

	"spendly/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBudgetService(budgets *MockBudgetRepository, orders *MockOrderRepository, now time.Time) BudgetService {
	svc := NewBudgetService(budgets, orders, zerolog.Nop()).(*budgetService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestBudgetService_Current(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("configured", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("GetCurrent", ctx, "u1", "2024-06").Return(&model.Budget{UserID: "u1", Amount: 500, Month: "2024-06"}, nil)

		svc := newBudgetService(budgets, new(MockOrderRepository), now)
		budget, err := svc.Current(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, 500.0, budget.Amount)
	})

	t.Run("unset budget is nil, not an error", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("GetCurrent", ctx, "u1", "2024-06").Return(nil, nil)

		svc := newBudgetService(budgets, new(MockOrderRepository), now)
		budget, err := svc.Current(ctx, "u1")

		require.NoError(t, err)
		assert.Nil(t, budget)
	})
}

func TestBudgetService_Remaining(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("computes the remainder", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("GetCurrent", ctx, "u1", "2024-06").Return(&model.Budget{UserID: "u1", Amount: 500, Month: "2024-06"}, nil)
		orders := new(MockOrderRepository)
		orders.On("SpentInMonth", ctx, "u1", now).Return(120.5, nil)

		svc := newBudgetService(budgets, orders, now)
		remaining, err := svc.Remaining(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, 500.0, remaining.Amount)
		assert.Equal(t, 120.5, remaining.Spent)
		assert.InDelta(t, 379.5, remaining.Remaining, 0.001)
	})

	t.Run("overspend goes negative", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("GetCurrent", ctx, "u1", "2024-06").Return(&model.Budget{UserID: "u1", Amount: 100, Month: "2024-06"}, nil)
		orders := new(MockOrderRepository)
		orders.On("SpentInMonth", ctx, "u1", now).Return(150.0, nil)

		svc := newBudgetService(budgets, orders, now)
		remaining, err := svc.Remaining(ctx, "u1")

		require.NoError(t, err)
		assert.InDelta(t, -50.0, remaining.Remaining, 0.001)
	})

	t.Run("unset budget is rejected", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("GetCurrent", ctx, "u1", "2024-06").Return(nil, nil)

		svc := newBudgetService(budgets, new(MockOrderRepository), now)
		_, err := svc.Remaining(ctx, "u1")

		assert.ErrorIs(t, err, model.ErrBudgetNotConfigured)
	})
}

func TestBudgetService_Set(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stores this month's ceiling", func(t *testing.T) {
		budgets := new(MockBudgetRepository)
		budgets.On("Upsert", ctx, mock.MatchedBy(func(b *model.Budget) bool {
			return b.UserID == "u1" && b.Amount == 750 && b.Month == "2024-06"
		})).Return(nil)

		svc := newBudgetService(budgets, new(MockOrderRepository), now)
		budget, err := svc.Set(ctx, "u1", 750)

		require.NoError(t, err)
		assert.Equal(t, "2024-06", budget.Month)
		budgets.AssertExpectations(t)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		budgets := new(MockBudgetRepository)

		svc := newBudgetService(budgets, new(MockOrderRepository), now)
		_, err := svc.Set(ctx, "u1", -10)

		assert.Error(t, err)
		budgets.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
