package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvalencia/storefront-backend/api/controllers"
	webhookcontrollers "github.com/mvalencia/storefront-backend/api/controllers/webhooks"
	"github.com/mvalencia/storefront-backend/api/middleware"
	"github.com/mvalencia/storefront-backend/internal/cart"
	checkoutsvc "github.com/mvalencia/storefront-backend/internal/checkout"
	"github.com/mvalencia/storefront-backend/internal/orders"
	"github.com/mvalencia/storefront-backend/internal/products"
	stripewebhook "github.com/mvalencia/storefront-backend/internal/webhooks/stripe"
	"github.com/mvalencia/storefront-backend/internal/wishlist"
	"github.com/mvalencia/storefront-backend/pkg/config"
	"github.com/mvalencia/storefront-backend/pkg/enums"
	"github.com/mvalencia/storefront-backend/pkg/logger"
	pkgredis "github.com/mvalencia/storefront-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

type stripeSigner interface {
	SigningSecret() string
}

// Deps groups everything the HTTP surface needs. Stores may be nil in tests,
// which disables the middleware that depends on them.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Cache    pinger
	Gatherer prometheus.Gatherer

	IdempotencyStore pkgredis.IdempotencyStore
	RateLimitStore   rateLimiterStore

	ProductService  products.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	OrdersService   orders.Service
	CheckoutService checkoutsvc.Service

	StripeSigner       stripeSigner
	StripeWebhookSvc   webhookcontrollers.StripeWebhookService
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	paymentPolicy := middleware.NewPaymentRateLimitPolicy(
		"payments",
		cfg.RateLimit.PaymentWindow,
		cfg.RateLimit.PaymentIPLimit,
		cfg.RateLimit.PaymentUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Cache, logg))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.ProductService, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhookSvc, deps.StripeSigner, deps.StripeWebhookGuard, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.CartService, logg))
				r.Delete("/", controllers.ClearCart(deps.CartService, logg))
				r.Post("/items", controllers.AddCartItem(deps.CartService, logg))
				r.Put("/items/{productID}", controllers.UpdateCartItem(deps.CartService, logg))
				r.Delete("/items/{productID}", controllers.RemoveCartItem(deps.CartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.GetWishlist(deps.WishlistService, logg))
				r.Post("/items", controllers.AddWishlistItem(deps.WishlistService, logg))
				r.Delete("/items/{productID}", controllers.RemoveWishlistItem(deps.WishlistService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListMyOrders(deps.OrdersService, logg))
				r.Get("/{orderNumber}", controllers.GetMyOrder(deps.OrdersService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(middleware.PaymentRateLimit(paymentPolicy, deps.RateLimitStore, logg))
				r.Post("/create-intent", controllers.CreatePaymentIntent(deps.CheckoutService, logg))
				r.Post("/confirm", controllers.ConfirmPayment(deps.CheckoutService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.MemberRoleAdmin), logg))
			r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.OrdersService, logg))
				r.Get("/stats", controllers.AdminOrderStats(deps.OrdersService, logg))
				r.Get("/{orderNumber}", controllers.AdminGetOrder(deps.OrdersService, logg))
				r.Put("/{orderNumber}/status", controllers.AdminUpdateOrderStatus(deps.OrdersService, logg))
			})
		})
	})

	return r
}
