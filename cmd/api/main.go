package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/justsurfingit/SalaryIQ/internal/config"
	"github.com/justsurfingit/SalaryIQ/internal/database"
	"github.com/justsurfingit/SalaryIQ/internal/handlers"
	"github.com/justsurfingit/SalaryIQ/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

var log = logrus.New()

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	setupLogger(cfg)

	// 2. Database Connection
	db, admin := connectCache(cfg)
	store := services.NewCacheService(db, admin)

	// 3. Rate limiter, shared through Redis when configured
	limiter := newLimiter(cfg)

	// 4. Gemini client
	ctx := context.Background()
	var model llms.Model
	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY not set, analysis requests will fail")
	} else {
		model, err = services.NewGeminiModel(ctx, cfg.GeminiAPIKey, cfg.GeminiModels[0])
		if err != nil {
			log.WithError(err).Fatal("failed to create gemini client")
		}
	}
	llmService := services.NewLLMService(model, services.LLMOptions{
		Models:  cfg.GeminiModels,
		Timeout: cfg.GeminiTimeout,
	}, log)

	analysis := services.NewAnalysisService(store, limiter, llmService, log)

	// 5. Expired-row cleanup
	cleanup := services.NewCleanupService(store, cfg.CleanupSchedule, log)
	if err := cleanup.Start(); err != nil {
		log.WithError(err).Fatal("failed to start cleanup job")
	}

	// 6. Handlers & Router
	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(
		handlers.NewSalaryHandler(analysis, cfg.PublicBaseURL, log),
		handlers.NewPreviewHandler(log),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cleanup.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}

func setupLogger(cfg *config.Config) {
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

// connectCache opens the standard connection and, when a distinct service
// key is configured, a second elevated one. The elevated one runs migrations.
func connectCache(cfg *config.Config) (db, admin *gorm.DB) {
	dsn, err := cfg.CacheDSN(cfg.CacheKey)
	if err != nil {
		log.WithError(err).Fatal("invalid cache configuration")
	}

	if !cfg.HasServiceKey() {
		db, err = database.Connect(dsn, true, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		return db, db
	}

	adminDSN, err := cfg.CacheDSN(cfg.CacheServiceKey)
	if err != nil {
		log.WithError(err).Fatal("invalid cache configuration")
	}
	admin, err = database.Connect(adminDSN, true, log.WithField("role", "service"))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	db, err = database.Connect(dsn, false, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	return db, admin
}

func newLimiter(cfg *config.Config) services.RateLimiter {
	if cfg.RedisURL == "" {
		return services.NewSlidingWindowLimiter(services.DefaultRateLimits, time.Now)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to reach redis")
	}
	log.Info("rate limiting shared through redis")
	return services.NewRedisRateLimiter(rdb, services.DefaultRateLimits, time.Now)
}
