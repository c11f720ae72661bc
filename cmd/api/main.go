package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/config"
	"github.com/pageza/dietrec/backend/internal/api"
	"github.com/pageza/dietrec/backend/internal/database"
	"github.com/pageza/dietrec/backend/internal/middleware"
	"github.com/pageza/dietrec/backend/internal/monitoring"
	"github.com/pageza/dietrec/backend/internal/router"
	"github.com/pageza/dietrec/backend/internal/server"
	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/pkg/logger"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: config.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("[Main] server error", zap.Error(err))
	}
	log.Info("[Main] server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, "migrations", log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Warn("[Main] S3 unavailable, image links will not be mirrored", zap.Error(err))
		s3Config = nil
	}
	if s3Config != nil {
		if err := s3Config.SetupBucketPolicy(ctx); err != nil {
			log.Warn("[Main] failed to apply bucket policy", zap.Error(err))
		}
	}

	metrics := monitoring.NewMetricsCollector()

	var images service.ImageLookup
	if cfg.ImageSearchEnabled() {
		images = service.NewImageFinder(service.ImageFinderOptions{
			APIKey:   cfg.ImageSearchAPIKey,
			EngineID: cfg.ImageSearchEngineID,
			APIURL:   cfg.ImageSearchURL,
			Interval: cfg.ImageSearchInterval,
			Redis:    redisClient,
			S3:       s3Config,
			Logger:   log,
			Metrics:  metrics,
		})
	} else {
		log.Warn("[Main] image search not configured, recipes will have no image links")
	}

	recommendations := service.NewRecommendationService(
		service.NewMealPlanner(nil),
		service.NewRecommenderClient(cfg.RecommenderURL, cfg.RecommenderTimeout, log, metrics),
		images,
		service.ParseFailurePolicy(cfg.FailurePolicy),
		log,
		metrics,
	)

	engine := router.SetupRouter(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     metrics,
		Logger:      log,
	}, api.Dependencies{
		Recommendations: recommendations,
		Sessions:        service.NewSessionStore(redisClient),
		History:         service.NewHistoryService(db, log),
		Tokens:          service.NewSessionTokenService(cfg.SessionSecret, service.SessionTTL),
		PlanLimiter:     middleware.NewPlanGenerationRateLimiter(redisClient, cfg.PlanRateLimit, cfg.PlanRateWindow, log),
		SessionOptions: middleware.SessionOptions{
			MaxAge: int(service.SessionTTL.Seconds()),
			Secure: config.IsProduction(),
		},
		ReadyChecks: map[string]func(ctx context.Context) error{
			"database": func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Logger: log,
	})

	srv := server.New(cfg.ServerHost, cfg.ServerPort, engine, log)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info("[Main] received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
