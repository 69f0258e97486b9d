package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dangelesl03/frontwedding/internal/service"
	"github.com/dangelesl03/frontwedding/pkg/health"
	"github.com/dangelesl03/frontwedding/pkg/middleware"
)

// RouterConfig carries the router's non-service dependencies.
type RouterConfig struct {
	CORS            middleware.CORSConfig
	PprofCIDRs      []string
	GiftCacheMaxAge int
}

// NewRouter creates a chi router with all registry service routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	gifts GiftLister,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("registry"))
	r.Use(middleware.Tracing("registry"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	giftsHandler := NewGiftsHandler(gifts, logger)
	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1/gifts", func(r chi.Router) {
		r.Use(middleware.CacheControl(cfg.GiftCacheMaxAge))
		r.Get("/", giftsHandler.ListGifts)
		r.Get("/{giftId}", giftsHandler.GetGift)
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(GuestSession)

		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)

		r.Post("/items", cartHandler.AddPledge)
		r.Put("/items/{giftId}", cartHandler.UpdateQuantity)
		r.Delete("/items/{giftId}", cartHandler.RemovePledge)
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(GuestSession)

		r.Post("/confirm", checkoutHandler.Confirm)
	})

	return r
}
