package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Katsud0n0/city-nexus-connect/internal/api/http"
	"github.com/Katsud0n0/city-nexus-connect/internal/api/http/handlers"
	"github.com/Katsud0n0/city-nexus-connect/internal/auth"
	"github.com/Katsud0n0/city-nexus-connect/internal/config"
	"github.com/Katsud0n0/city-nexus-connect/internal/events"
	"github.com/Katsud0n0/city-nexus-connect/internal/observability"
	"github.com/Katsud0n0/city-nexus-connect/internal/persistence"
	"github.com/Katsud0n0/city-nexus-connect/internal/repository"
	"github.com/Katsud0n0/city-nexus-connect/internal/service"
	"github.com/Katsud0n0/city-nexus-connect/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		workbook    *persistence.Workbook
		postgres    *persistence.Postgres
		userRepo    repository.UserRepository
		requestRepo repository.RequestRepository
	)

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		postgres, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer postgres.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, postgres.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		userRepo = repository.NewUserPostgresRepository(postgres.PoolHandle())
		requestRepo = repository.NewRequestPostgresRepository(postgres.PoolHandle())
	default:
		workbook, err = persistence.NewWorkbook(cfg.Store, logger)
		if err != nil {
			logger.Fatal("failed to open workbook", zap.Error(err))
		}
		userRepo, err = repository.NewUserWorkbookRepository(workbook)
		if err != nil {
			logger.Fatal("failed to init users sheet", zap.Error(err))
		}
		requestRepo, err = repository.NewRequestWorkbookRepository(workbook)
		if err != nil {
			logger.Fatal("failed to init requests sheet", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	requestService := service.NewRequestService(requestRepo, dispatcher)
	statsService := service.NewStatsService(*cfg, requestRepo, redis, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.Start(dispatcher, notificationService, statsService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(*cfg, workbook, postgres, redis),
		Users:          handlers.NewUsersHandler(authService, requestService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Stats:          handlers.NewStatsHandler(statsService),
		Departments:    handlers.NewDepartmentsHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
