package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
	"github.com/smartchef/backend/internal/logger"
	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/service"
	"github.com/smartchef/backend/internal/types"
)

const batchSize = 5 // Number of recipes appended per catalog write

func main() {
	catalogPath := flag.String("catalog", "", "Catalog CSV path (defaults to catalog.path)")
	generate := flag.Int("generate", 0, "Number of recipes to generate with the LLM and append")
	maxItems := flag.Int("max-items", 5, "Maximum pantry items per generated recipe")
	seed := flag.Int64("seed", 0, "Random seed for pantry selection (0 picks one)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console"})
	defer zl.Sync()

	path := cfg.Catalog.Path
	if *catalogPath != "" {
		path = *catalogPath
	}
	catalog := service.NewCSVCatalog(path, zl, nil)
	if err := catalog.EnsureSeeded(); err != nil {
		zl.Fatal("failed to seed catalog", zap.Error(err))
	}
	zl.Info("catalog ready", zap.String("path", catalog.Path()))

	if *generate <= 0 {
		return
	}

	llm, err := service.NewTextGenerator(cfg.LLM, zl)
	if err != nil {
		zl.Fatal("failed to create LLM client", zap.Error(err))
	}
	generator := service.NewRecipeGenerator(llm, service.GenerateOptionsFromConfig(cfg.LLM), zl, metrics.New())

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(*seed)
	ctx := context.Background()

	added, skipped := 0, 0
	batch := make([]types.CatalogEntry, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := catalog.Append(ctx, batch...); err != nil {
			zl.Fatal("failed to append recipes", zap.Error(err))
		}
		added += len(batch)
		batch = batch[:0]
	}

	for i := 0; i < *generate; i++ {
		items := service.RandomPantry(faker, *maxItems)
		res := generator.Run(ctx, items, nil)
		if res.Fallback {
			// Canned recipes would only duplicate the fallback in the catalog.
			zl.Warn("generation fell back, skipping", zap.Strings("items", items), zap.Error(res.LastErr))
			skipped++
			continue
		}
		zl.Info("generated recipe", zap.String("title", res.Recipe.Title), zap.Strings("items", res.Items))
		batch = append(batch, service.CatalogEntryFromRecipe(res.Items, res.Recipe, "generated"))
		if len(batch) == batchSize {
			flush()
		}
	}
	flush()

	zl.Info("seeding finished", zap.Int("added", added), zap.Int("skipped", skipped))
}
