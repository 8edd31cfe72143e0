package launchpad

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/cart"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/catalog"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/checkout"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/download"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/health"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/plan"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/handlers/subscribe"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *storefront.Service, m *metrics.Metrics, gatherer prometheus.Gatherer, limit config.RateLimit) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	cartSessions := func(id string) cart.Session { return svc.Session(id) }
	checkoutSessions := func(id string) checkout.Session { return svc.Session(id) }
	subscribeSessions := func(id string) subscribe.Session { return svc.Session(id) }
	planSessions := func(id string) plan.Session { return svc.Session(id) }

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middlewarectx.MetricsMiddleware(m),
			middlewarectx.SessionMiddleware,
			middlewarectx.RateLimitMiddleware(logger, limit),
		)

		r.Get("/health", health.New(logger).ServeHTTP)

		r.Get("/products", catalog.NewProducts(logger, svc).ServeHTTP)
		r.Get("/tiers", catalog.NewTiers(logger, svc).ServeHTTP)

		r.Get("/cart", cart.NewView(logger, cartSessions).ServeHTTP)
		r.Post("/cart", cart.NewAdd(logger, cartSessions).ServeHTTP)
		r.Delete("/cart/{index}", cart.NewRemove(logger, cartSessions).ServeHTTP)

		r.Post("/checkout", checkout.New(logger, checkoutSessions).ServeHTTP)
		r.Get("/orders", checkout.NewOrders(logger, checkoutSessions).ServeHTTP)

		r.Post("/subscribe", subscribe.New(logger, subscribeSessions).ServeHTTP)
		r.Get("/subscription", subscribe.NewStatus(logger, subscribeSessions).ServeHTTP)
		r.Post("/tier/upgrade", subscribe.NewUpgrade(logger, subscribeSessions).ServeHTTP)

		r.Get("/plan", plan.NewGet(logger, planSessions).ServeHTTP)
		r.Post("/plan/regenerate", plan.NewRegenerate(logger, planSessions).ServeHTTP)
		r.Post("/plan/tasks/{id}/toggle", plan.NewToggle(logger, planSessions).ServeHTTP)

		r.Get("/downloads/{handle}", download.NewGet(logger, svc).ServeHTTP)
		r.Delete("/downloads/{handle}", download.NewRevoke(logger, svc).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
