package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/config"
	"neowatch/internal/handlers"
	"neowatch/internal/logger"
	"neowatch/internal/middleware"
	"neowatch/internal/models"
	"neowatch/internal/repository"
	"neowatch/internal/service"
	"neowatch/internal/worker"
	"neowatch/pkg/database"
	"neowatch/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	os.Exit(run())
}

func run() int {
	envErr := godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.App.LogLevel); err != nil {
		return 1
	}
	defer logger.Sync()
	log := logger.GetLogger("main")

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}
	log.Info("=== NEO Watch Starting ===")

	condition, err := models.ParseComparison(cfg.Query.Condition)
	if err != nil {
		log.Errorw("Invalid QUERY_CONDITION", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cacheRepo repository.CacheRepository
	if cfg.Redis.Enabled {
		redisClient, err := redis.Connect(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warnw("Redis unavailable, continuing without feed cache", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient)
			log.Infof("Feed cache enabled (ttl: %v)", cfg.Redis.FeedTTL)
		}
	}

	nasaClient := clients.NewNASAClient(clients.NASAConfig{
		APIKey:  cfg.NASA.APIKey,
		NEOURL:  cfg.NASA.NEOURL,
		Timeout: cfg.NASA.Timeout,
	})
	neoService := service.NewNEOService(nasaClient, cacheRepo, service.NEOConfig{
		Days:     cfg.NASA.Days,
		RawPath:  cfg.Output.RawPath,
		CacheTTL: cfg.Redis.FeedTTL,
	})

	dbConfig := database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}
	openStore := func(ctx context.Context) (repository.AsteroidRepository, func() error, error) {
		db, err := database.Connect(dbConfig)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewAsteroidRepository(db, cfg.DB.Table), func() error { return database.Close(db) }, nil
	}

	pipeline := service.NewPipeline(neoService, openStore, service.PipelineConfig{
		CSVPath:        cfg.Output.CSVPath,
		XLSXPath:       cfg.Output.XLSXPath,
		MissDistanceKm: cfg.Query.MissDistanceKm,
		Condition:      condition,
	})

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Errorw("Pipeline failed", "error", err)
		return 1
	}
	if report.PersistErr != nil {
		log.Errorw("Pipeline finished without persisting", "error", report.PersistErr)
		return 1
	}
	log.Infow("Pipeline completed", "run_id", report.RunID.String(), "rows", report.Rows, "matches", len(report.Names))

	if !cfg.API.Enabled {
		return 0
	}
	return serve(ctx, cfg, pipeline, dbConfig, condition)
}

// serve exposes the read API until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, pipeline *service.Pipeline, dbConfig database.Config, condition models.Comparison) int {
	log := logger.GetLogger("main")

	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Errorw("Failed to connect to database", "error", err)
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warnw("Failed to close database connection", "error", err)
		}
	}()
	repo := repository.NewAsteroidRepository(db, cfg.DB.Table)

	scheduler := worker.NewScheduler()
	if cfg.Workers.NEOEnabled {
		scheduler.AddWorker(worker.NewNEOWorker(pipeline, cfg.Workers.NEOInterval))
		log.Infof("NEO Worker enabled (interval: %v)", cfg.Workers.NEOInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Info("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.API.FrontendURL},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Infof("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	handler := handlers.NewAsteroidHandler(repo, pipeline, handlers.QueryDefaults{
		MissDistanceKm: cfg.Query.MissDistanceKm,
		Condition:      condition,
	})
	handler.RegisterRoutes(r.Group("/api/v1"))

	server := &http.Server{
		Addr:         ":" + cfg.API.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on http://localhost:%s", cfg.API.Port)
		log.Infof("Health check: http://localhost:%s/api/v1/health", cfg.API.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server failed to start", "error", err)
			return 1
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server forced to shutdown", "error", err)
		return 1
	}

	log.Info("Server exited properly")
	return 0
}
