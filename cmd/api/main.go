package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
	"github.com/smartchef/backend/internal/api"
	"github.com/smartchef/backend/internal/database"
	"github.com/smartchef/backend/internal/logger"
	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/middleware"
	"github.com/smartchef/backend/internal/router"
	"github.com/smartchef/backend/internal/server"
	"github.com/smartchef/backend/internal/service"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()
	m := metrics.New()

	db, err := database.New(cfg.Database, zl)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(db, "", zl); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = database.NewRedisClient(cfg.Redis, zl)
		if err != nil {
			zl.Warn("redis unavailable, using in-process stores", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	images, err := service.NewImageStore(ctx, cfg.Storage, zl)
	if err != nil {
		return err
	}

	llm, err := service.NewTextGenerator(cfg.LLM, zl)
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey == "" {
		zl.Warn("no LLM API key configured, generation will fall back")
	}
	generator := service.NewRecipeGenerator(llm, service.GenerateOptionsFromConfig(cfg.LLM), zl, m)

	catalog := service.NewCSVCatalog(cfg.Catalog.Path, zl, m)
	if err := catalog.EnsureSeeded(); err != nil {
		return err
	}
	recommender := service.NewRecommendationService(catalog, zl, m)

	classes, err := service.LoadFoodClasses(cfg.Detector.FoodClassesPath)
	if err != nil {
		return err
	}
	detector := service.NewFoodDetector(service.NewHTTPDetector(cfg.Detector.Endpoint, cfg.Detector.Timeout, zl), classes, m)

	var recipes service.RecipeStore = service.NewMemoryRecipeStore(cfg.RecipeStore.TTL)
	if redisClient != nil {
		recipes = service.NewRedisRecipeStore(redisClient, cfg.RecipeStore.TTL)
	}

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		rlCfg := middleware.RateLimitConfig{
			Window:    cfg.RateLimit.Window,
			Limit:     cfg.RateLimit.Requests,
			KeyPrefix: "rate_limit:smartchef",
		}
		if redisClient != nil {
			limiter = middleware.NewRateLimiter(redisClient, rlCfg)
		} else {
			limiter = middleware.NewLocalLimiter(rlCfg)
		}
	}

	handlers := router.Handlers{
		Image:  api.NewImageHandler(detector, images, recommender, service.NewScanService(db), cfg.Server.MaxUploadBytes, zl),
		LLM:    api.NewLLMHandler(generator, recipes, zl),
		Recipe: api.NewRecipeHandler(recommender),
		Scan:   api.NewScanHandler(service.NewScanService(db)),
	}
	engine := router.SetupRouter(handlers, router.Options{
		Logger:         zl,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Limiter:        limiter,
	})

	srv := server.New(cfg.Server, engine, zl)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zl.Info("received signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	zl.Info("server stopped")
	return nil
}
