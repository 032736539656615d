package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/Arafat-Sarder/sarder-super-shop-pos/api/routes"
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
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/metrics"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/migrate"
	"github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/redis"
)

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
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		redisPinger db.Pinger
		idemStore   redis.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		redisPinger = redisClient
		idemStore = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, confirm retries will not be deduplicated")
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(promReg)

	svc, err := buildServices(cfg, dbClient, checkoutMetrics, logg)
	if err != nil {
		logg.Error(ctx, "failed to wire services", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Dialect(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisPinger, idemStore, promReg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(shutdownCtx)
	shutdownErr = multierr.Append(shutdownErr, dbClient.Close())
	if redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, redisClient.Close())
	}
	if shutdownErr != nil {
		logg.Error(serverCtx, "error during shutdown", shutdownErr)
		exitCode = 1
	}

	os.Exit(exitCode)
}

func buildServices(cfg *config.Config, dbClient *db.Client, m *metrics.CheckoutMetrics, logg *logger.Logger) (routes.Services, error) {
	conn := dbClient.DB()

	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	customerSvc, err := customers.NewService(customers.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	employeeSvc, err := employees.NewService(employees.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	supplierSvc, err := suppliers.NewService(suppliers.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	salesSvc, err := sales.NewService(sales.NewRepository(conn))
	if err != nil {
		return routes.Services{}, err
	}
	loc, err := cfg.Shop.Location()
	if err != nil {
		return routes.Services{}, err
	}
	reportSvc, err := reports.NewService(reports.NewRepository(conn), catalogSvc, loc)
	if err != nil {
		return routes.Services{}, err
	}
	receiptSvc, err := receipt.NewService(cfg.Shop, salesSvc, customerSvc, loc)
	if err != nil {
		return routes.Services{}, err
	}

	committer, err := checkout.NewCommitter(dbClient, checkout.RepositoryStores, m, logg)
	if err != nil {
		return routes.Services{}, err
	}
	tills, err := checkout.NewRegistry(checkout.Deps{
		Catalog:   catalogSvc,
		Customers: customerSvc,
		Employees: employeeSvc,
		Committer: committer,
		Metrics:   m,
		Logger:    logg,
	}, cfg.Checkout.DefaultTill)
	if err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Catalog:   catalogSvc,
		Customers: customerSvc,
		Employees: employeeSvc,
		Suppliers: supplierSvc,
		Sales:     salesSvc,
		Receipts:  receiptSvc,
		Reports:   reportSvc,
		Tills:     tills,
	}, nil
}
