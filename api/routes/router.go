package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/controllers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/middleware"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/catalog"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/checkout"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/customers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/employees"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/receipt"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/reports"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/sales"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/internal/suppliers"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/config"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/db"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/logger"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/redis"
)

// Services bundles what the API handlers call into.
type Services struct {
	Catalog   catalog.Service
	Customers customers.Service
	Employees employees.Service
	Suppliers suppliers.Service
	Sales     sales.Service
	Receipts  *receipt.Service
	Reports   reports.Service
	Tills     *checkout.Registry
}

// NewRouter wires middleware and routes. idem and redisP may be nil when
// redis is not configured; confirm then runs without replay protection.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP db.Pinger,
	idem redis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svc.Catalog, logg))
			r.Post("/", controllers.ProductCreate(svc.Catalog, logg))
			r.Get("/low-stock", controllers.ProductLowStock(svc.Catalog, logg))
			r.Get("/barcode/{code}", controllers.ProductByBarcode(svc.Catalog, logg))
			r.Get("/{id}", controllers.ProductGet(svc.Catalog, logg))
			r.Patch("/{id}", controllers.ProductUpdate(svc.Catalog, logg))
			r.Post("/{id}/restock", controllers.ProductRestock(svc.Catalog, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(svc.Customers, logg))
			r.Post("/", controllers.CustomerCreate(svc.Customers, logg))
			r.Get("/{id}", controllers.CustomerGet(svc.Customers, logg))
		})
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", controllers.EmployeeList(svc.Employees, logg))
			r.Post("/", controllers.EmployeeCreate(svc.Employees, logg))
			r.Get("/{id}", controllers.EmployeeGet(svc.Employees, logg))
		})
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(svc.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(svc.Suppliers, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.Till(cfg.Checkout.DefaultTill, logg))
			r.Get("/", controllers.CheckoutSnapshot(svc.Tills))
			r.Delete("/", controllers.CheckoutCancel(svc.Tills, logg))
			r.Post("/lines", controllers.CheckoutAddLine(svc.Tills, logg))
			r.Patch("/lines/{productID}", controllers.CheckoutUpdateLine(svc.Tills, logg))
			r.Delete("/lines/{productID}", controllers.CheckoutRemoveLine(svc.Tills, logg))
			r.Put("/parties", controllers.CheckoutSelectParties(svc.Tills, logg))
			r.Post("/payment", controllers.CheckoutPaymentPreview(svc.Tills, logg))
			r.With(middleware.Idempotency(idem, cfg.Checkout.IdempotencyTTL, logg)).
				Post("/confirm", controllers.CheckoutConfirm(svc.Tills, logg))
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SaleList(svc.Sales, logg))
			r.Get("/{id}", controllers.SaleGet(svc.Sales, logg))
			r.Get("/{id}/receipt", controllers.SaleReceipt(svc.Receipts, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", controllers.ReportSummary(svc.Reports, logg))
			r.Get("/daily", controllers.ReportDaily(svc.Reports, logg))
		})
	})

	return r
}
