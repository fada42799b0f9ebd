package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sparkclean/config"
	"sparkclean/cron"
	"sparkclean/database/repository"
	"sparkclean/handlers"
	"sparkclean/middleware"
	"sparkclean/routes"
	"sparkclean/services/booking"
	"sparkclean/services/cache"
	"sparkclean/services/notification"
	"sparkclean/services/storage"
	"sparkclean/services/tasks"
	"sparkclean/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()
	cfg := config.AppConfig

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := utils.InitTracer(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize tracing: %v", err)
	}

	// store.
	store, err := repository.OpenStore(cfg.StoreDriver)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open %s store: %v", cfg.StoreDriver, err)
	}
	logger.Info("Store ready", zap.String("driver", store.Driver))

	healthDeps := map[string]utils.Pinger{}
	candidateCache := buildCache(logger, healthDeps)
	avatars := buildAvatars(logger)

	publisher := buildPublisher(logger)
	notifier, err := notification.NewDefaultNotifier(publisher, logger.Named("events"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// deferred reminders.
	queueClient := asynq.NewClient(cron.RedisOpt())
	reminders := &tasks.ReminderScheduler{
		Client: queueClient,
		Lead:   cfg.ReminderLead,
		Logger: logger.Named("reminders"),
	}
	worker := cron.InitReminderWorker(notifier)

	// services.
	pipeline := &booking.Pipeline{
		Index:     &booking.DefaultAvailabilityIndex{Cleaners: store.Cleaners, Logger: logger.Named("index")},
		Conflicts: &booking.DefaultConflictFilter{Bookings: store.Bookings},
		Ranker:    &booking.DefaultCandidateRanker{Cleaners: store.Cleaners, Avatars: avatars},
	}
	matchingService := &booking.DefaultMatchingService{
		Pipeline:      pipeline,
		Cache:         candidateCache,
		CacheTTL:      cfg.CacheTTL,
		MaxCandidates: cfg.MaxCandidates,
		Logger:        logger.Named("matching"),
	}
	assignmentService := &booking.DefaultAssignmentService{
		Bookings:   store.Bookings,
		Cleaners:   store.Cleaners,
		Pipeline:   pipeline,
		Authorizer: booking.OwnerAuthorizer{},
		Cache:      candidateCache,
		Listeners:  []booking.AssignmentListener{reminders, notifier},
		Logger:     logger.Named("assignment"),
	}

	bookingHandler := handlers.NewBookingHandler(matchingService, assignmentService)
	handlerBundle := &handlers.HandlerBundle{
		QueryAvailability: bookingHandler.QueryAvailability,
		AssignCleaner:     bookingHandler.AssignCleaner,
		Health:            handlers.Health,
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, store.Ping, healthDeps)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := queueClient.Close(); err != nil {
		logger.Warn("main: queue client close failed", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		logger.Warn("main: publisher close failed", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("main: store close failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("main: tracer shutdown failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// buildCache picks the availability cache backend. A Redis outage at startup
// degrades to no caching rather than stopping the service.
func buildCache(logger *zap.Logger, healthDeps map[string]utils.Pinger) cache.CandidateCache {
	switch config.AppConfig.CacheBackend {
	case "redis":
		if err := utils.InitCache(); err != nil {
			logger.Warn("Availability cache disabled", zap.Error(err))
			return cache.NoopCache{}
		}
		client := utils.GetCacheClient()
		healthDeps["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return cache.NewRedisCache(client)
	case "lru":
		return cache.NewLRUCache(config.AppConfig.CacheSize, config.AppConfig.CacheTTL)
	default:
		return cache.NoopCache{}
	}
}

func buildAvatars(logger *zap.Logger) storage.AvatarResolver {
	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Info("Avatar URLs served as stored", zap.String("reason", err.Error()))
		return storage.PassthroughAvatars{}
	}
	return storage.NewCloudinaryAvatars(cld, logger.Named("avatars"))
}

func buildPublisher(logger *zap.Logger) notification.Publisher {
	if config.AppConfig.RabbitMQURL == "" {
		return notification.LogPublisher{Logger: logger.Named("events")}
	}
	pub, err := notification.NewAMQPPublisher(config.AppConfig.RabbitMQURL, config.AppConfig.RabbitMQExchange)
	if err != nil {
		logger.Warn("Event broker unavailable, logging events instead", zap.Error(err))
		return notification.LogPublisher{Logger: logger.Named("events")}
	}
	return pub
}
