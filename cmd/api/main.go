package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/mvalencia/storefront-backend/api/routes"
	"github.com/mvalencia/storefront-backend/internal/cart"
	checkoutsvc "github.com/mvalencia/storefront-backend/internal/checkout"
	"github.com/mvalencia/storefront-backend/internal/orders"
	"github.com/mvalencia/storefront-backend/internal/products"
	stripewebhook "github.com/mvalencia/storefront-backend/internal/webhooks/stripe"
	"github.com/mvalencia/storefront-backend/internal/wishlist"
	"github.com/mvalencia/storefront-backend/pkg/config"
	"github.com/mvalencia/storefront-backend/pkg/db"
	"github.com/mvalencia/storefront-backend/pkg/logger"
	"github.com/mvalencia/storefront-backend/pkg/metrics"
	"github.com/mvalencia/storefront-backend/pkg/migrate"
	"github.com/mvalencia/storefront-backend/pkg/redis"
	pkgstripe "github.com/mvalencia/storefront-backend/pkg/stripe"
)

// Stripe retries webhook deliveries for up to three days.
const webhookGuardTTL = 4 * 24 * time.Hour

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	productRepo := products.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:   orderRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:          dbClient,
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		OrderRepo:   orderRepo,
		Gateway:     pkgstripe.NewPaymentIntentClient(stripeClient),
		Config:      cfg.Checkout,
		Logger:      logg,
		Metrics:     checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		OrderRepo: orderRepo,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookGuardTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:             cfg,
		Logger:             logg,
		DB:                 dbClient,
		Cache:              redisClient,
		Gatherer:           registry,
		IdempotencyStore:   redisClient,
		RateLimitStore:     redisClient,
		ProductService:     productService,
		CartService:        cartService,
		WishlistService:    wishlistService,
		OrdersService:      ordersService,
		CheckoutService:    checkoutService,
		StripeSigner:       stripeClient,
		StripeWebhookSvc:   webhookService,
		StripeWebhookGuard: webhookGuard,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErrs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		closeErrs = multierr.Append(closeErrs, err)
	}
	if err := redisClient.Close(); err != nil {
		closeErrs = multierr.Append(closeErrs, err)
	}
	if err := dbClient.Close(); err != nil {
		closeErrs = multierr.Append(closeErrs, err)
	}
	if closeErrs != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErrs)
		os.Exit(1)
	}

	logg.Info(ctx, "api server stopped")
}
