package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendly/internal/billing"
	"spendly/internal/cart"
	"spendly/internal/catalog"
	"spendly/internal/config"
	"spendly/internal/database"
	"spendly/internal/handler"
	"spendly/internal/notify"
	"spendly/internal/realtime"
	"spendly/internal/repository"
	"spendly/internal/router"
	"spendly/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env when present; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting spendly API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	budgetRepo := repository.NewBudgetRepository(pool, logger)
	statsRepo := repository.NewStatsRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	achievementRepo := repository.NewAchievementRepository(pool, logger)
	subscriptionRepo := repository.NewSubscriptionRepository(pool, logger)

	// Initialize catalog seed loader with S3 and local fallback
	fileLoader := catalog.NewFileLoader(logger)
	var catalogLoader catalog.Loader

	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			catalogLoader = fileLoader
		} else {
			catalogLoader = s3Loader
		}
	} else {
		catalogLoader = fileLoader
		logger.Info().Msg("using local file system for catalog seed (S3 disabled)")
	}

	// Initialize durable cart cache and per-user engines
	cartStore, err := cart.NewFileStore(cfg.Cart.CacheDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cart cache: %w", err)
	}
	cartManager := cart.NewManager(cartStore, logger)

	// Initialize realtime hub and outbound integrations
	hub := realtime.NewHub(logger)
	stripeClient := billing.NewClient(cfg.Stripe, logger)
	mailer := notify.NewMailer(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, logger)
	coach := notify.NewCoach(cfg.AI.OpenAIAPIKey, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, catalogLoader, cfg.Catalog.SeedPath, hub, logger)
	cartService := service.NewCartService(cartManager, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartManager, orderRepo, statsRepo, mailer, coach, hub, logger)
	orderService := service.NewOrderService(orderRepo, logger)
	analyticsService := service.NewAnalyticsService(orderRepo, time.Local, logger)
	budgetService := service.NewBudgetService(budgetRepo, orderRepo, logger)
	statsService := service.NewStatsService(statsRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)
	achievementService := service.NewAchievementService(achievementRepo, logger)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, stripeClient, cfg.Stripe.WebhookSecret, hub, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:     handler.NewProductHandler(productService, logger),
		Cart:        handler.NewCartHandler(cartService, subscriptionService, logger),
		Checkout:    handler.NewCheckoutHandler(checkoutService, subscriptionService, logger),
		Order:       handler.NewOrderHandler(orderService, logger),
		Analytics:   handler.NewAnalyticsHandler(analyticsService, logger),
		Budget:      handler.NewBudgetHandler(budgetService, logger),
		Stats:       handler.NewStatsHandler(statsService, logger),
		Wishlist:    handler.NewWishlistHandler(wishlistService, logger),
		Achievement: handler.NewAchievementHandler(achievementService, logger),
		Billing:     handler.NewBillingHandler(subscriptionService, logger),
		Realtime:    handler.NewRealtimeHandler(hub, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.JWTSecret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
