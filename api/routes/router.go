package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderplus/orderplus-backend/api/controllers"
	"github.com/orderplus/orderplus-backend/api/middleware"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/metrics"
)

// Deps bundles everything the router mounts. Optional entries may be nil;
// their routes then answer with an internal error instead of panicking.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Orders    controllers.OrderService
	Abandoned controllers.AbandonedService
	Products  controllers.ProductLister
	Landing   controllers.LandingPageReader
	Cart      controllers.CartStore
	Auth      controllers.AuthService
	Fraud     controllers.FraudChecker

	ReadyChecks map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Public storefront surface.
	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.Login(deps.Auth, logg))

		r.Get("/products", controllers.ListProducts(deps.Products, logg))

		r.Route("/pages", func(r chi.Router) {
			r.Get("/", controllers.ListPages(deps.Landing, logg))
			r.Get("/{pageId}", controllers.GetPage(deps.Landing, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Post("/order", controllers.CreateOrder(deps.Orders, logg))
		r.Post("/wp/order", controllers.IngestWebhookOrder(deps.Orders, logg))
		r.Post("/abandoned", controllers.CaptureAbandoned(deps.Abandoned, logg))

		// Back-office surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireBackOffice(logg))

			r.Post("/order/update", controllers.UpdateOrder(deps.Orders, logg))
			r.Get("/orders", controllers.ListOrders(deps.Orders, logg))
			r.Get("/orders/report", controllers.OrdersReport(deps.Orders, logg))

			r.Get("/abandoned", controllers.ListAbandoned(deps.Abandoned, logg))
			r.Post("/abandoned/to/order", controllers.ConvertAbandoned(deps.Abandoned, logg))

			r.Post("/fraudcheck/check", controllers.CheckFraud(deps.Fraud, logg))
		})
	})

	return r
}
