package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/inventory-service/api/controllers"
	"github.com/angelmondragon/inventory-service/api/middleware"
	"github.com/angelmondragon/inventory-service/api/responses"
	"github.com/angelmondragon/inventory-service/api/validators"
	product "github.com/angelmondragon/inventory-service/internal/products"
	"github.com/angelmondragon/inventory-service/pkg/config"
	"github.com/angelmondragon/inventory-service/pkg/logger"
	"github.com/angelmondragon/inventory-service/pkg/metrics"
	pkgredis "github.com/angelmondragon/inventory-service/pkg/redis"
)

// NewRouter wires the HTTP surface. idempotencyStore and registry are
// optional; pass nil to disable replay and metrics respectively.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	productService product.Service,
	idempotencyStore pkgredis.IdempotencyStore,
	registry *prometheus.Registry,
	readiness ...controllers.Dependency,
) http.Handler {
	r := chi.NewRouter()
	responses.SetLogger(logg)

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	var (
		origins        []string
		idempotencyTTL time.Duration
	)
	if cfg != nil {
		origins = cfg.HTTP.CORSOrigins
		idempotencyTTL = cfg.Redis.IdempotencyTTL
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(origins),
	)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	idempotent := middleware.Idempotency(idempotencyStore, idempotencyTTL, logg)
	params := validators.Params(logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/health", func(r chi.Router) {
			r.Get("/", controllers.HealthLive())
			r.Get("/ready", controllers.HealthReady(logg, readiness...))
		})

		r.Route("/products", func(r chi.Router) {
			r.With(idempotent, validators.Body[validators.CreateProductBody](logg)).
				Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Get("/low-stock", controllers.LowStockProducts(productService, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Use(params)
				r.Get("/", controllers.GetProduct(productService, logg))
				r.With(validators.Body[validators.UpdateProductBody](logg)).
					Put("/", controllers.UpdateProduct(productService, logg))
				r.Delete("/", controllers.DeleteProduct(productService, logg))
			})
		})

		r.Route("/stock/{id}", func(r chi.Router) {
			r.Use(params)
			r.With(idempotent, validators.Body[validators.StockOperationBody](logg)).
				Post("/increase", controllers.IncreaseStock(productService, logg))
			r.With(idempotent, validators.Body[validators.StockOperationBody](logg)).
				Post("/decrease", controllers.DecreaseStock(productService, logg))
		})
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Not found"))
}
