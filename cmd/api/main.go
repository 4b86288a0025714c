package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/orderplus/orderplus-backend/api/controllers"
	"github.com/orderplus/orderplus-backend/api/routes"
	"github.com/orderplus/orderplus-backend/internal/abandoned"
	"github.com/orderplus/orderplus-backend/internal/activity"
	authsvc "github.com/orderplus/orderplus-backend/internal/auth"
	"github.com/orderplus/orderplus-backend/internal/cart"
	"github.com/orderplus/orderplus-backend/internal/catalog"
	"github.com/orderplus/orderplus-backend/internal/landing"
	"github.com/orderplus/orderplus-backend/internal/orders"
	"github.com/orderplus/orderplus-backend/internal/performance"
	"github.com/orderplus/orderplus-backend/internal/users"
	"github.com/orderplus/orderplus-backend/pkg/config"
	"github.com/orderplus/orderplus-backend/pkg/db"
	"github.com/orderplus/orderplus-backend/pkg/env"
	"github.com/orderplus/orderplus-backend/pkg/fraudcheck"
	"github.com/orderplus/orderplus-backend/pkg/logger"
	"github.com/orderplus/orderplus-backend/pkg/metrics"
	"github.com/orderplus/orderplus-backend/pkg/migrate"
	"github.com/orderplus/orderplus-backend/pkg/outbox"
	"github.com/orderplus/orderplus-backend/pkg/redis"
)

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
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	activityRepo := activity.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	abandonedRepo := abandoned.NewRepository(gormDB)
	landingRepo := landing.NewRepository(gormDB)
	outboxSvc := outbox.NewService(outbox.NewRepository(gormDB), logg)
	recorder := performance.NewRecorder(gormDB, logg, pipelineMetrics)

	ordersSvc, err := orders.NewService(ordersRepo, usersRepo, catalogRepo, activityRepo, dbClient, outboxSvc, recorder, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	abandonedSvc, err := abandoned.NewService(abandonedRepo, usersRepo, catalogRepo, activityRepo, ordersRepo, dbClient, outboxSvc, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create abandoned service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(usersRepo, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartStore := cart.NewStore(redisClient, cfg.Cart)
	fraudClient := fraudcheck.NewClient(cfg.FraudCheck)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			HTTPMetrics: httpMetrics,
			Registry:    registry,
			Orders:      ordersSvc,
			Abandoned:   abandonedSvc,
			Products:    catalogRepo,
			Landing:     landingRepo,
			Cart:        cartStore,
			Auth:        authService,
			Fraud:       fraudClient,
			ReadyChecks: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
