package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	httptransport "github.com/campusops/facility-desk/internal/api/http"
	"github.com/campusops/facility-desk/internal/api/http/handlers"
	"github.com/campusops/facility-desk/internal/auth"
	"github.com/campusops/facility-desk/internal/classifier"
	"github.com/campusops/facility-desk/internal/config"
	"github.com/campusops/facility-desk/internal/events"
	"github.com/campusops/facility-desk/internal/observability"
	"github.com/campusops/facility-desk/internal/repository"
	"github.com/campusops/facility-desk/internal/seed"
	"github.com/campusops/facility-desk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	clock := func() time.Time { return time.Now().UTC() }

	userRepo := repository.NewUserRepository()
	requestRepo := repository.NewRequestRepository()
	if cfg.SeedDemoData {
		if err := seed.Load(ctx, userRepo, requestRepo, clock(), logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	var suggester classifier.Classifier = classifier.Noop{}
	if cfg.Classifier.Enabled {
		suggester = classifier.NewOpenAI(classifier.OpenAIConfig{
			APIKey:  cfg.Classifier.APIKey,
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.Classifier.Model,
			Timeout: cfg.Classifier.Timeout(),
		}, logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification, metrics)
	notifications.RegisterHandlers()

	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo: requestRepo,
		Classifier:  suggester,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Clock:       clock,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo: userRepo,
		Logger:   logger,
		Clock:    clock,
	})

	tokens := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens, directoryService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.ReadinessCheck{
		"request_store": func(ctx context.Context) error {
			_, err := requestRepo.List(ctx)
			return err
		},
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Requests:       handlers.NewRequestsHandler(requestService),
		Users:          handlers.NewUsersHandler(directoryService),
		Admin:          handlers.NewAdminHandler(requestService),
		AuthMiddleware: authMiddleware,
		Metrics:        adaptor.HTTPHandler(metrics.Handler()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
