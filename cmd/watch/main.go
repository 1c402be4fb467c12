package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
	"github.com/smartchef/backend/internal/logger"
	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

// defaultPrefs is sent with every suggestion unless -prefs overrides it.
const defaultPrefs = `{"quick_meal":true}`

func parsePrefs(raw string) (types.Preferences, error) {
	if raw == "" {
		return nil, nil
	}
	var prefs types.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func main() {
	snapshot := flag.String("snapshot", "camera/latest.jpg", "Image file the camera keeps overwriting")
	interval := flag.Duration("interval", time.Second, "How often to check the snapshot")
	minGap := flag.Duration("min-gap", 5*time.Second, "Minimum time between two suggestions")
	prefsJSON := flag.String("prefs", defaultPrefs, "Preferences as JSON, empty for none")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console", Development: cfg.IsDevelopment()})
	defer zl.Sync()

	prefs, err := parsePrefs(*prefsJSON)
	if err != nil {
		zl.Fatal("invalid -prefs", zap.Error(err))
	}

	m := metrics.New()
	llm, err := service.NewTextGenerator(cfg.LLM, zl)
	if err != nil {
		zl.Fatal("failed to create LLM client", zap.Error(err))
	}
	classes, err := service.LoadFoodClasses(cfg.Detector.FoodClassesPath)
	if err != nil {
		zl.Fatal("failed to load food classes", zap.Error(err))
	}

	w := &service.Watcher{
		Frames:    service.NewSnapshotSource(*snapshot),
		Detector:  service.NewFoodDetector(service.NewHTTPDetector(cfg.Detector.Endpoint, cfg.Detector.Timeout, zl), classes, m),
		Generator: service.NewRecipeGenerator(llm, service.GenerateOptionsFromConfig(cfg.LLM), zl, m),
		Prefs:     prefs,
		Interval:  *interval,
		MinGap:    *minGap,
		Logger:    zl,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wake, err := service.NotifySnapshots(ctx, *snapshot, zl)
	if err != nil {
		zl.Warn("file notifications unavailable, polling only", zap.Error(err))
	} else {
		w.Wake = wake
	}

	zl.Info("watching snapshot", zap.String("path", *snapshot))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	err = w.Run(ctx, func(s service.Suggestion) {
		if err := enc.Encode(s); err != nil {
			zl.Warn("failed to print suggestion", zap.Error(err))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		zl.Fatal("watcher stopped", zap.Error(err))
	}
}
