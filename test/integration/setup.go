package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL,
			is_flash_deal BOOLEAN NOT NULL DEFAULT FALSE,
			discount_percentage DOUBLE PRECISION,
			flash_deal_end TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(100) PRIMARY KEY,
			email VARCHAR(255) NOT NULL
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			order_number VARCHAR(20) NOT NULL,
			items JSONB NOT NULL,
			total_amount DECIMAL(10, 2) NOT NULL,
			shipping_address JSONB NOT NULL,
			emotional_trigger VARCHAR(30) NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS user_budgets (
			user_id VARCHAR(100) NOT NULL,
			amount DECIMAL(10, 2) NOT NULL,
			month VARCHAR(7) NOT NULL,
			PRIMARY KEY (user_id, month)
		);

		CREATE TABLE IF NOT EXISTS user_stats (
			user_id VARCHAR(100) PRIMARY KEY,
			points INTEGER NOT NULL DEFAULT 0,
			total_spent DECIMAL(12, 2) NOT NULL DEFAULT 0,
			total_saved DECIMAL(12, 2) NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			last_purchase_date TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS wishlists (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100) NOT NULL,
			name VARCHAR(100) NOT NULL,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS wishlist_items (
			id UUID PRIMARY KEY,
			wishlist_id UUID NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
			product_id VARCHAR(50) NOT NULL,
			price_at_add DECIMAL(10, 2) NOT NULL,
			notify_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS achievements (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon VARCHAR(20) NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS user_achievements (
			user_id VARCHAR(100) NOT NULL,
			achievement_id VARCHAR(50) NOT NULL REFERENCES achievements(id),
			earned_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		);

		CREATE TABLE IF NOT EXISTS subscriptions (
			user_id VARCHAR(100) PRIMARY KEY,
			status VARCHAR(20) NOT NULL,
			stripe_subscription_id VARCHAR(100) NOT NULL DEFAULT '',
			stripe_customer_id VARCHAR(100) NOT NULL DEFAULT '',
			current_period_end TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		INSERT INTO achievements (id, name, description, icon, points) VALUES
			('first_purchase', 'First Purchase', 'Completed a first mindful purchase', '🎉', 50),
			('streak_week', 'Week Streak', 'Shopped mindfully seven days in a row', '🔥', 100),
			('streak_month', 'Month Streak', 'Shopped mindfully thirty days in a row', '🏆', 500)
		ON CONFLICT (id) DO NOTHING;
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	type seedProduct struct {
		id        string
		name      string
		price     float64
		category  string
		flashDeal bool
		discount  *float64
		dealEnd   *time.Time
	}

	discount := 25.0
	dealEnd := time.Now().Add(24 * time.Hour)

	products := []seedProduct{
		{id: "P001", name: "Ceramic Mug", price: 10.00, category: "Home"},
		{id: "P002", name: "Desk Lamp", price: 40.00, category: "Home"},
		{id: "P003", name: "Running Shoes", price: 80.00, category: "Sports", flashDeal: true, discount: &discount, dealEnd: &dealEnd},
		{id: "P004", name: "Notebook", price: 5.00, category: "Office"},
		{id: "P005", name: "Headphones", price: 60.00, category: "Electronics"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, category, is_flash_deal, discount_percentage, flash_deal_end)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.id, p.name, p.price, p.category, p.flashDeal, p.discount, p.dealEnd)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables. The achievement catalog is
// seeded with the schema and survives cleanup.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"user_achievements",
		"wishlist_items",
		"wishlists",
		"orders",
		"subscriptions",
		"user_stats",
		"user_budgets",
		"users",
		"products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
