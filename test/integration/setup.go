package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database/dbtest"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const sessionTTL = time.Hour

// TestServer is the full HTTP stack over a Postgres container and an
// in-process Redis.
type TestServer struct {
	Handler http.Handler
	Pool    *pgxpool.Pool
	Redis   *miniredis.Miniredis
	Auth    service.AuthService
}

// Stores holds the durable and session stores behind a TestServer.
type Stores struct {
	Durable  storage.Store
	Sessions storage.Store
	Codec    *storage.Codec
}

// SetupTestServer wires the application the way cmd/api does, with payments
// that always settle and no delay.
func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	pool := dbtest.Postgres(t)
	mr := miniredis.RunT(t)

	srv := &TestServer{Pool: pool, Redis: mr}
	srv.build(t)
	return srv
}

// Restart rebuilds every in-process component over the same stores, the way
// a redeploy would.
func (s *TestServer) Restart(t *testing.T) {
	t.Helper()
	s.build(t)
}

func (s *TestServer) stores(t *testing.T) Stores {
	t.Helper()

	logger := zerolog.Nop()
	client := redis.NewClient(&redis.Options{Addr: s.Redis.Addr()})
	t.Cleanup(func() { client.Close() })

	return Stores{
		Durable:  storage.NewPostgresStore(s.Pool, logger),
		Sessions: storage.NewRedisStore(client, "storefront:", sessionTTL, logger),
		Codec:    storage.NewCodec(logger),
	}
}

func (s *TestServer) build(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	logger := zerolog.Nop()
	st := s.stores(t)

	// Initialize repositories
	productRepo := repository.NewProductRepository(s.Pool, logger)
	orderRepo := repository.NewOrderRepository(s.Pool, logger)

	if _, err := catalog.NewSeeder(productRepo, catalog.NewFileLoader(logger), logger).Seed(ctx, "does-not-exist.json"); err != nil {
		t.Fatalf("failed to seed catalogue: %v", err)
	}

	// Initialize services
	carts := cart.NewRegistry(st.Durable, st.Codec, nil, logger)
	productService := service.NewProductService(productRepo, logger)
	favouritesService := service.NewFavouritesService(st.Sessions, st.Codec, productService, logger)
	authService := service.NewAuthService(st.Durable, st.Sessions, st.Codec, favouritesService, logger)
	cartService := service.NewCartService(carts, productService, logger)
	orderService := service.NewOrderService(orderRepo, events.NewNopPublisher(logger), logger)
	dispatcher := payment.NewDispatcher(config.PaymentConfig{
		MobileSuccessRate: 1,
		CardSuccessRate:   1,
		MerchantCode:      "1",
		RecipientPhone:    "0788025819",
	}, logger)
	checkoutService := service.NewCheckoutService(carts, dispatcher, orderService, logger)

	if err := authService.EnsureDefaults(ctx); err != nil {
		t.Fatalf("failed to seed accounts: %v", err)
	}

	s.Auth = authService
	s.Handler = router.New(router.Handlers{
		Health:     handler.NewHealthHandler(map[string]handler.Pinger{"postgres": s.Pool}, logger),
		Products:   handler.NewProductHandler(productService, logger),
		Cart:       handler.NewCartHandler(cartService, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Auth:       handler.NewAuthHandler(authService, logger),
		Favourites: handler.NewFavouritesHandler(favouritesService, logger),
	}, authService, "storefront-test", logger)
}
