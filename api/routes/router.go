package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvolkova/shopbot-backend/api/controllers"
	"github.com/mvolkova/shopbot-backend/api/middleware"
	"github.com/mvolkova/shopbot-backend/internal/backup"
	"github.com/mvolkova/shopbot-backend/internal/cart"
	"github.com/mvolkova/shopbot-backend/internal/catalog"
	"github.com/mvolkova/shopbot-backend/internal/orders"
	"github.com/mvolkova/shopbot-backend/internal/users"
	"github.com/mvolkova/shopbot-backend/pkg/config"
	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

// NewRouter wires every HTTP route the bot layer and operators call.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	metricsReg *prometheus.Registry,
	catalogService catalog.Service,
	usersService users.Service,
	cartService cart.Service,
	ordersService orders.Service,
	backupService backup.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Get("/healthz", controllers.Healthz(cfg, logg, dbP))
	if metricsReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
			r.Get("/products", controllers.CatalogProducts(catalogService, logg))
			r.Post("/products", controllers.CatalogAddProduct(catalogService, logg))
			r.Get("/products/{id}", controllers.CatalogProductByID(catalogService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserUpsert(usersService, logg))
			r.Get("/{id}/admin", controllers.UserAdminFlag(usersService, logg))
		})

		r.Route("/carts/{userID}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(ordersService, logg))
			r.Get("/{id}", controllers.OrderDetail(ordersService, logg))
		})

		r.Route("/backups", func(r chi.Router) {
			r.Post("/", controllers.BackupExport(backupService, logg))
			r.Post("/restore", controllers.BackupRestore(backupService, logg))
		})
	})

	return r
}
