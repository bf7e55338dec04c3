package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-insights/internal/api/http"
	"github.com/spec-kit/ticket-insights/internal/api/http/handlers"
	"github.com/spec-kit/ticket-insights/internal/clock"
	"github.com/spec-kit/ticket-insights/internal/config"
	"github.com/spec-kit/ticket-insights/internal/events"
	"github.com/spec-kit/ticket-insights/internal/observability"
	"github.com/spec-kit/ticket-insights/internal/persistence"
	"github.com/spec-kit/ticket-insights/internal/repository"
	"github.com/spec-kit/ticket-insights/internal/responder"
	"github.com/spec-kit/ticket-insights/internal/service"
	"github.com/spec-kit/ticket-insights/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg := &persistence.Postgres{}
	ticketRepo := repository.NewMemoryTicketRepository()
	if cfg.Store.Driver == config.StoreDriverPostgres {
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		ticketRepo = repository.NewPostgresTicketRepository(pg.PoolHandle())
	}
	defer pg.Close()
	logger.Info("ticket store selected", zap.String("driver", cfg.Store.Driver))

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var publisher events.Publisher
	if redis.Configured() {
		publisher = events.NewRedisPublisher(redis.Client)
	}

	location, err := cfg.Analytics.Location()
	if err != nil {
		logger.Fatal("invalid analytics timezone", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		Categorizer: service.NewDefaultCategorizer(),
		Dispatcher:  dispatcher,
		Clock:       clock.Real(),
		Logger:      logger,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		TicketRepo:        ticketRepo,
		Location:          location,
		DefaultWindowDays: cfg.Analytics.DefaultWindowDays,
		Logger:            logger,
	})
	exportService := service.NewExportService(ticketService, logger)

	notifications := service.NewNotificationService(dispatcher, publisher, cfg.Redis.EventsChannel, logger)
	responses := worker.NewResponseWorker(
		ticketService,
		responder.New(cfg.Responder.URL, cfg.Responder.Timeout(), cfg.Responder.FallbackText),
		cfg.Responder.Workers,
		cfg.Responder.QueueSize,
		logger,
	)
	worker.StartNotificationWorker(dispatcher, notifications, responses)
	responses.Start(ctx)
	defer responses.Stop()

	if publisher != nil && cfg.Analytics.BroadcastSchedule != "" {
		broadcaster, err := worker.NewAnalyticsBroadcaster(analyticsService, publisher, cfg.Redis.AnalyticsChannel, cfg.Analytics.BroadcastSchedule, logger)
		if err != nil {
			logger.Fatal("failed to schedule analytics broadcast", zap.Error(err))
		}
		broadcaster.Start()
		defer broadcaster.Stop()
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSAllowOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Tickets:   handlers.NewTicketsHandler(ticketService, exportService),
		Analytics: handlers.NewAnalyticsHandler(analyticsService),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
