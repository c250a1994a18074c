package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/canchaya/canchas-api/internal/config"
	"github.com/canchaya/canchas-api/internal/database"
	"github.com/canchaya/canchas-api/internal/handler"
	"github.com/canchaya/canchas-api/internal/logging"
	"github.com/canchaya/canchas-api/internal/metrics"
	"github.com/canchaya/canchas-api/internal/middleware"
	"github.com/canchaya/canchas-api/internal/queue"
	"github.com/canchaya/canchas-api/internal/repository"
	"github.com/canchaya/canchas-api/internal/router"
	"github.com/canchaya/canchas-api/internal/service"
	"github.com/canchaya/canchas-api/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}).
		With(logging.FieldService, cfg.Telemetry.ServiceName, logging.FieldEnv, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatalf("tracer: %v", err)
	}
	rec, metricsHandler, shutdownMetrics, err := metrics.Setup(ctx, metrics.TelemetryConfig{
		Enabled:      cfg.Telemetry.MetricsEnabled,
		ServiceName:  cfg.Telemetry.ServiceName,
		OtlpEndpoint: cfg.Telemetry.MetricsEndpoint,
		OtlpInsecure: cfg.Telemetry.Insecure,
	})
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	db, err := database.Open(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		logging.Info(logger, "schema applied")
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logging.Warn(logger, "redis unavailable; cache off, rate limit local to this process")
	} else {
		defer rdb.Close()
	}

	obs := service.Observers{Metrics: rec, Logger: logger}
	if cfg.Broker.URL != "" {
		pub, err := queue.NewPublisher(cfg.Broker.URL, cfg.Broker.Exchange)
		if err != nil {
			logging.Error(logger, "rabbitmq unavailable; catalog events disabled", err)
		} else {
			defer pub.Close()
			obs.Events = pub
		}
	}

	venueRepo := repository.NewVenueRepo(db)
	tariffRepo := repository.NewTariffRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	userRepo := repository.NewUserRepo(db)

	venues := service.NewVenueService(venueRepo, tariffRepo, obs)
	tariffs := service.NewTariffService(venueRepo, tariffRepo, obs)
	catalog := service.NewCatalogService(catalogRepo)
	auth := service.NewAuthService(userRepo, catalogRepo, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		BcryptCost: cfg.BcryptCost,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(logger, rec))
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb))

	router.RegisterRoutes(e, router.Deps{
		Cfg:     cfg,
		Redis:   rdb,
		DB:      db,
		Metrics: metricsHandler,
		Auth:    handler.NewAuthHandler(auth),
		Catalog: handler.NewCatalogHandler(catalog),
		Venues:  handler.NewVenueHandler(venues),
		Tariffs: handler.NewTariffHandler(tariffs, cfg.Location()),
	})

	addr := ":" + cfg.Port
	go func() {
		logging.Info(logger, "listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(logger, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error(logger, "http shutdown", err)
	}
	if err := shutdownMetrics(shutdownCtx); err != nil {
		logging.Error(logger, "metrics shutdown", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logging.Error(logger, "tracer shutdown", err)
	}
	logging.Info(logger, "bye")
}
