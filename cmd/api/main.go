package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/telemetry"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing
	tracing, err := telemetry.Setup(ctx, cfg.Telemetry, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to flush traces")
		}
	}()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize stores
	codec := storage.NewCodec(logger)
	durable := storage.NewPostgresStore(pool, logger)
	checks := map[string]handler.Pinger{"postgres": pool}

	var sessions storage.Store
	if cfg.Redis.Enabled {
		client, err := storage.NewRedisClient(ctx, cfg.Redis.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer client.Close()

		sessions = storage.NewRedisStore(client, cfg.Redis.Prefix, cfg.Session.TTL, logger)
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	} else {
		logger.Warn().Msg("redis disabled, sessions and favourites are kept in memory")
		sessions = storage.NewMemoryStore()
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Seed the catalogue from S3 with local file fallback
	if err := seedCatalogue(ctx, cfg, productRepo, logger); err != nil {
		return err
	}

	// Initialize order events
	var publisher events.Publisher
	if cfg.Events.Enabled {
		rabbit, err := events.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Queue, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize order events: %w", err)
		}
		publisher = rabbit
	} else {
		publisher = events.NewNopPublisher(logger)
	}
	defer publisher.Close()

	// Initialize services
	cartLogger := logger.With().Str("component", "cart").Logger()
	carts := cart.NewRegistry(durable, codec, func(ctx context.Context, summary model.CartSummary) {
		cartLogger.Debug().
			Str("cart_id", summary.CartID).
			Int("item_count", summary.ItemCount).
			Str("total", summary.Total.StringFixed(2)).
			Msg("cart changed")
	}, logger)

	productService := service.NewProductService(productRepo, logger)
	favouritesService := service.NewFavouritesService(sessions, codec, productService, logger)
	authService := service.NewAuthService(durable, sessions, codec, favouritesService, logger)
	cartService := service.NewCartService(carts, productService, logger)
	orderService := service.NewOrderService(orderRepo, publisher, logger)
	dispatcher := payment.NewDispatcher(cfg.Payment, logger)
	checkoutService := service.NewCheckoutService(carts, dispatcher, orderService, logger)

	if err := authService.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed default accounts: %w", err)
	}

	// Initialize router
	mux := router.New(router.Handlers{
		Health:     handler.NewHealthHandler(checks, logger),
		Products:   handler.NewProductHandler(productService, logger),
		Cart:       handler.NewCartHandler(cartService, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Auth:       handler.NewAuthHandler(authService, logger),
		Favourites: handler.NewFavouritesHandler(favouritesService, logger),
	}, authService, cfg.Telemetry.ServiceName, logger)

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

		// In-flight checkouts may be waiting on a payment delay.
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

// seedCatalogue fills an empty product table, reading the seed from S3 when
// enabled and from the local file otherwise.
func seedCatalogue(ctx context.Context, cfg *config.Config, products catalog.ProductWriter, logger zerolog.Logger) error {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for the catalogue seed (S3 disabled)")
	}

	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Key, logger)
	if _, err := catalog.NewSeeder(products, loader, logger).Seed(ctx, cfg.Catalog.SeedPath); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}
	return nil
}
