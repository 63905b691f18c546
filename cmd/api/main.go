package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/inventory-service/api/controllers"
	"github.com/angelmondragon/inventory-service/api/routes"
	product "github.com/angelmondragon/inventory-service/internal/products"
	"github.com/angelmondragon/inventory-service/pkg/config"
	"github.com/angelmondragon/inventory-service/pkg/db"
	"github.com/angelmondragon/inventory-service/pkg/logger"
	"github.com/angelmondragon/inventory-service/pkg/metrics"
	"github.com/angelmondragon/inventory-service/pkg/migrate"
	pkgmongo "github.com/angelmondragon/inventory-service/pkg/mongo"
	"github.com/angelmondragon/inventory-service/pkg/redis"
)

// store bundles the repository with the handles needed to ping and release it.
type store struct {
	repo   product.Repository
	pinger db.Pinger
	close  func() error
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "inventory-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "inventory-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap store", err)
		os.Exit(1)
	}

	closers := []func() error{st.close}
	readiness := []controllers.Dependency{{Name: cfg.Store.Driver, Pinger: st.pinger}}

	var idempotencyStore redis.IdempotencyStore
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		idempotencyStore = redisClient
		closers = append(closers, redisClient.Close)
		readiness = append(readiness, controllers.Dependency{Name: "redis", Pinger: redisClient})
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	productService, err := product.NewService(st.repo, metrics.NewStockMetrics(registry))
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, productService, idempotencyStore, registry, readiness...),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.Store.Driver,
	})
	logg.Info(serverCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	for _, closeFn := range closers {
		shutdownErr = multierr.Append(shutdownErr, closeFn())
	}
	if shutdownErr != nil {
		logg.Error(serverCtx, "error during shutdown", shutdownErr)
		exitCode = 1
	} else {
		logg.Info(serverCtx, "api server stopped")
	}

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*store, error) {
	if cfg.Store.IsSQL() {
		dbClient, err := db.New(ctx, cfg.Store.Driver, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
			return nil, multierr.Append(err, dbClient.Close())
		}
		return &store{
			repo:   product.NewSQLRepository(dbClient.DB()),
			pinger: dbClient,
			close:  dbClient.Close,
		}, nil
	}

	mongoClient, err := pkgmongo.New(ctx, cfg.Mongo, logg)
	if err != nil {
		return nil, err
	}
	return &store{
		repo:   product.NewMongoRepository(mongoClient.Collection("")),
		pinger: mongoClient,
		close:  mongoClient.Close,
	}, nil
}
