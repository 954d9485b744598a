package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	Stripe   StripeConfig
	Email    EmailConfig
	AI       AIConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string
}

// CartConfig holds durable cart cache configuration.
type CartConfig struct {
	CacheDir string
}

// CatalogConfig holds catalog seed configuration. When S3 is disabled the
// seed file is read from the local file system.
type CatalogConfig struct {
	SeedPath  string
	S3Enabled bool
	S3Bucket  string
	S3Region  string
}

// StripeConfig holds payment processor configuration.
type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	MonthlyPriceID string
	SuccessURL     string
	CancelURL      string
	PortalReturn   string
}

// EmailConfig holds transactional email configuration.
type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
}

// AIConfig holds text-completion provider configuration. The key may be
// empty; encouragement generation then falls back to the default message.
type AIConfig struct {
	OpenAIAPIKey string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "spendly"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Cart: CartConfig{
			CacheDir: getEnv("CART_CACHE_DIR", "data/carts"),
		},
		Catalog: CatalogConfig{
			SeedPath:  getEnv("CATALOG_SEED_PATH", "data/catalog/products.jsonl.gz"),
			S3Enabled: getEnvAsBool("CATALOG_S3_ENABLED", false),
			S3Bucket:  getEnv("CATALOG_S3_BUCKET", ""),
			S3Region:  getEnv("CATALOG_S3_REGION", "us-east-1"),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret:  getEnv("STRIPE_WEBHOOK_SIGNING_SECRET", ""),
			MonthlyPriceID: getEnv("STRIPE_MONTHLY_PRICE_ID", ""),
			SuccessURL:     getEnv("STRIPE_SUCCESS_URL", "http://localhost:5173/subscription?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:      getEnv("STRIPE_CANCEL_URL", "http://localhost:5173/subscription"),
			PortalReturn:   getEnv("STRIPE_PORTAL_RETURN_URL", "http://localhost:5173/settings"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM", "Spendly <orders@spendly.example>"),
		},
		AI: AIConfig{
			OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Cart.CacheDir == "" {
		return fmt.Errorf("cart cache directory is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.S3Enabled {
		if c.Catalog.S3Bucket == "" {
			return fmt.Errorf("catalog S3 bucket is required when S3 is enabled")
		}
		if c.Catalog.S3Region == "" {
			return fmt.Errorf("catalog S3 region is required when S3 is enabled")
		}
	}

	if c.Stripe.SecretKey != "" && c.Stripe.MonthlyPriceID == "" {
		return fmt.Errorf("stripe monthly price ID is required when stripe is configured")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
