package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"spendly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// newOrderNumber generates a human-readable order number.
func newOrderNumber() string {
	return "SPD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// CreateOrder atomically checks funds, inserts the order and settles the
// user's gamification ledger. The budget row and stats row are locked for
// the duration of the transaction; a shortfall against the remaining budget
// is covered from the points balance at one point per dollar, and the order
// is rejected when both together cannot cover the total.
func (r *orderRepository) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	now := time.Now()
	month := now.Format("2006-01")

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Budget must exist for the current month; lock it against concurrent
	// submissions.
	var budgetAmount float64
	err = tx.QueryRow(ctx, `
		SELECT amount
		FROM user_budgets
		WHERE user_id = $1 AND month = $2
		FOR UPDATE
	`, req.UserID, month).Scan(&budgetAmount)
	if err != nil {
		if err == pgx.ErrNoRows {
			err = model.ErrBudgetNotConfigured
			return nil, err
		}
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to query budget")
		return nil, fmt.Errorf("failed to query budget: %w", err)
	}

	// Create the stats row on first purchase, then lock it.
	if _, err = tx.Exec(ctx, `
		INSERT INTO user_stats (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, req.UserID); err != nil {
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to ensure stats row")
		return nil, fmt.Errorf("failed to ensure stats row: %w", err)
	}

	var stats model.UserStats
	err = tx.QueryRow(ctx, `
		SELECT user_id, points, total_spent, total_saved, current_streak, longest_streak, last_purchase_date
		FROM user_stats
		WHERE user_id = $1
		FOR UPDATE
	`, req.UserID).Scan(
		&stats.UserID, &stats.Points, &stats.TotalSpent, &stats.TotalSaved,
		&stats.CurrentStreak, &stats.LongestStreak, &stats.LastPurchaseDate,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to lock stats row")
		return nil, fmt.Errorf("failed to lock stats row: %w", err)
	}

	var spent float64
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE user_id = $1 AND created_at >= date_trunc('month', $2::timestamptz)
	`, req.UserID, now).Scan(&spent)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to sum monthly spend")
		return nil, fmt.Errorf("failed to sum monthly spend: %w", err)
	}

	// Points cover any shortfall against the remaining budget at 1 pt = $1.
	remaining := budgetAmount - spent
	pointsNeeded := 0
	if shortfall := req.TotalAmount - remaining; shortfall > 0 {
		pointsNeeded = int(math.Ceil(shortfall))
		if pointsNeeded > stats.Points {
			r.logger.Warn().
				Str("user_id", req.UserID).
				Float64("total", req.TotalAmount).
				Float64("remaining_budget", remaining).
				Int("points", stats.Points).
				Msg("order rejected: insufficient budget and points")
			err = model.ErrInsufficientFunds
			return nil, err
		}
	}

	order := &model.Order{
		ID:               uuid.New(),
		UserID:           req.UserID,
		OrderNumber:      newOrderNumber(),
		Items:            req.Items,
		TotalAmount:      req.TotalAmount,
		ShippingAddress:  req.ShippingAddress,
		EmotionalTrigger: req.EmotionalTrigger,
		Status:           model.OrderStatusCompleted,
		CreatedAt:        now,
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}
	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping address: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, order_number, items, total_amount, shipping_address, emotional_trigger, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, order.ID, order.UserID, order.OrderNumber, itemsJSON, order.TotalAmount,
		shippingJSON, string(order.EmotionalTrigger), string(order.Status), order.CreatedAt,
	); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order")
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	// Settle the ledger: debit covering points, credit earned points, roll
	// the streak forward.
	earned := int(req.TotalAmount)
	streak, longest := nextStreak(stats, now)

	achievementPoints, err := r.grantAchievements(ctx, tx, req.UserID, stats, streak, now)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		UPDATE user_stats
		SET points = points - $2 + $3,
		    total_spent = total_spent + $4,
		    total_saved = total_saved + $5,
		    current_streak = $6,
		    longest_streak = $7,
		    last_purchase_date = $8
		WHERE user_id = $1
	`, req.UserID, pointsNeeded, earned+achievementPoints, req.TotalAmount,
		req.TotalSavings, streak, longest, now,
	); err != nil {
		r.logger.Error().Err(err).Str("user_id", req.UserID).Msg("failed to update stats")
		return nil, fmt.Errorf("failed to update stats: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Float64("total", order.TotalAmount).
		Int("points_debited", pointsNeeded).
		Int("points_earned", earned+achievementPoints).
		Msg("order created")

	return order, nil
}

// nextStreak rolls the mindful-shopping streak forward: a purchase the day
// after the last one extends it, a same-day purchase keeps it, anything else
// restarts at one.
func nextStreak(stats model.UserStats, now time.Time) (current, longest int) {
	current = 1
	if stats.LastPurchaseDate != nil {
		last := stats.LastPurchaseDate.Truncate(24 * time.Hour)
		today := now.Truncate(24 * time.Hour)
		switch int(today.Sub(last).Hours() / 24) {
		case 0:
			current = stats.CurrentStreak
			if current == 0 {
				current = 1
			}
		case 1:
			current = stats.CurrentStreak + 1
		}
	}

	longest = stats.LongestStreak
	if current > longest {
		longest = current
	}
	return current, longest
}

// grantAchievements unlocks any achievements this purchase earns and
// returns their catalog point value. Re-grants are no-ops.
func (r *orderRepository) grantAchievements(ctx context.Context, tx pgx.Tx, userID string, stats model.UserStats, streak int, now time.Time) (int, error) {
	var candidates []string
	if stats.LastPurchaseDate == nil {
		candidates = append(candidates, model.AchievementFirstPurchase)
	}
	if streak >= 7 {
		candidates = append(candidates, model.AchievementStreakWeek)
	}
	if streak >= 30 {
		candidates = append(candidates, model.AchievementStreakMonth)
	}

	total := 0
	for _, id := range candidates {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_achievements (user_id, achievement_id, earned_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, achievement_id) DO NOTHING
		`, userID, id, now)
		if err != nil {
			r.logger.Error().Err(err).Str("achievement", id).Msg("failed to grant achievement")
			return 0, fmt.Errorf("failed to grant achievement %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}

		var points int
		if err := tx.QueryRow(ctx, `
			SELECT points FROM achievements WHERE id = $1
		`, id).Scan(&points); err != nil && err != pgx.ErrNoRows {
			return 0, fmt.Errorf("failed to read achievement points for %s: %w", id, err)
		}
		total += points

		r.logger.Info().
			Str("user_id", userID).
			Str("achievement", id).
			Int("points", points).
			Msg("achievement unlocked")
	}

	return total, nil
}

const orderColumns = `id, user_id, order_number, items, total_amount, shipping_address, emotional_trigger, status, created_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	var itemsJSON, shippingJSON []byte
	var trigger, status string

	if err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &itemsJSON, &o.TotalAmount,
		&shippingJSON, &trigger, &status, &o.CreatedAt,
	); err != nil {
		return err
	}

	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(shippingJSON, &o.ShippingAddress); err != nil {
		return fmt.Errorf("failed to decode shipping address: %w", err)
	}
	o.EmotionalTrigger = model.EmotionalTrigger(trigger)
	o.Status = model.OrderStatus(status)
	return nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	var o model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id), &o)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// ListByUser retrieves a user's orders created in [since, until], newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string, since, until time.Time) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, since, until)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, r.logger)
}

// SpentInMonth sums a user's order totals for the month containing at.
func (r *orderRepository) SpentInMonth(ctx context.Context, userID string, at time.Time) (float64, error) {
	var spent float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE user_id = $1 AND created_at >= date_trunc('month', $2::timestamptz)
	`, userID, at).Scan(&spent)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to sum monthly spend")
		return 0, fmt.Errorf("failed to sum monthly spend: %w", err)
	}
	return spent, nil
}

// RecentPurchases retrieves the most recent orders across all users.
func (r *orderRepository) RecentPurchases(ctx context.Context, limit int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query recent purchases")
		return nil, fmt.Errorf("failed to query recent purchases: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows, r.logger)
}

// MostPurchasedProducts ranks products by purchased quantity across all
// orders' line-item snapshots.
func (r *orderRepository) MostPurchasedProducts(ctx context.Context, limit int) ([]model.ProductPurchaseCount, error) {
	query := `
		SELECT p.` + strings.ReplaceAll(productColumns, ", ", ", p.") + `, counts.purchased
		FROM (
			SELECT item->>'product_id' AS product_id, SUM((item->>'quantity')::int) AS purchased
			FROM orders, jsonb_array_elements(items) AS item
			GROUP BY item->>'product_id'
		) counts
		JOIN products p ON p.id = counts.product_id
		ORDER BY counts.purchased DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query most purchased products")
		return nil, fmt.Errorf("failed to query most purchased products: %w", err)
	}
	defer rows.Close()

	var results []model.ProductPurchaseCount
	for rows.Next() {
		var entry model.ProductPurchaseCount
		if err := rows.Scan(
			&entry.Product.ID, &entry.Product.Name, &entry.Product.Description,
			&entry.Product.Price, &entry.Product.Image, &entry.Product.Category,
			&entry.Product.IsFlashDeal, &entry.Product.DiscountPercentage,
			&entry.Product.FlashDealEnd, &entry.Product.CreatedAt,
			&entry.PurchaseCount,
		); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan purchase count row")
			return nil, fmt.Errorf("failed to scan purchase count: %w", err)
		}
		results = append(results, entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating purchase count rows")
		return nil, fmt.Errorf("error iterating purchase counts: %w", err)
	}

	return results, nil
}

func collectOrders(rows pgx.Rows, logger zerolog.Logger) ([]model.Order, error) {
	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
