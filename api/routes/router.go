package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/umkmdelicious/backend/api/controllers"
	"github.com/umkmdelicious/backend/api/middleware"
	authsvc "github.com/umkmdelicious/backend/internal/auth"
	catalogsvc "github.com/umkmdelicious/backend/internal/catalog"
	dashboardsvc "github.com/umkmdelicious/backend/internal/dashboard"
	invoicesvc "github.com/umkmdelicious/backend/internal/invoices"
	"github.com/umkmdelicious/backend/pkg/config"
	"github.com/umkmdelicious/backend/pkg/db"
	"github.com/umkmdelicious/backend/pkg/logger"
	"github.com/umkmdelicious/backend/pkg/redis"
)

// Deps carries everything the router needs; cmd/api builds it once at boot.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.Client
	Redis     *redis.Client
	Auth      authsvc.Service
	Catalog   catalogsvc.Service
	Invoices  invoicesvc.Service
	Dashboard dashboardsvc.Service
	Metrics   prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	// Keep the interface nil when no client is wired so the idempotency
	// middleware can skip itself.
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		idemStore = deps.Redis
	}
	var dbPinger, redisPinger controllers.Pinger
	if deps.DB != nil {
		dbPinger = deps.DB
	}
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbPinger, redisPinger, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/", controllers.ServiceBanner())

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.Idempotency(idemStore, logg)).Post("/register", controllers.Register(deps.Auth, logg))
			r.Post("/login", controllers.Login(deps.Auth, logg))
		})

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", controllers.ListFoods(deps.Catalog, logg))
			r.Get("/{id}", controllers.GetFood(deps.Catalog, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.Idempotency(idemStore, logg)).Post("/", controllers.PlaceOrder(deps.Invoices, logg))
			r.Get("/customer", controllers.CustomerOrders(deps.Invoices, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg, logg))
			r.Use(middleware.Idempotency(idemStore, logg))

			r.Route("/foods", func(r chi.Router) {
				r.Get("/", controllers.ListFoods(deps.Catalog, logg))
				r.Post("/", controllers.AdminCreateFood(deps.Catalog, logg))
				r.Get("/{id}", controllers.GetFood(deps.Catalog, logg))
				r.Put("/{id}", controllers.AdminUpdateFood(deps.Catalog, logg))
				r.Delete("/{id}", controllers.AdminDeleteFood(deps.Catalog, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", controllers.AdminListInvoices(deps.Invoices, logg))
				r.Post("/", controllers.AdminCreateInvoice(deps.Invoices, logg))
				r.Get("/{id}", controllers.AdminGetInvoice(deps.Invoices, logg))
				r.Put("/{id}", controllers.AdminUpdateInvoice(deps.Invoices, logg))
				r.Put("/{id}/status", controllers.AdminUpdateInvoiceStatus(deps.Invoices, logg))
				r.Delete("/{id}", controllers.AdminDeleteInvoice(deps.Invoices, logg))
			})

			r.Get("/dashboard", controllers.DashboardStats(deps.Dashboard, logg))
		})
	})

	return r
}
