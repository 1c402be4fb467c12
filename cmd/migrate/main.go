package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
	"github.com/smartchef/backend/internal/database"
	"github.com/smartchef/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding *.sql migrations")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console"})
	defer zl.Sync()

	db, err := database.New(cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}

	if *rollback {
		name, err := database.RollbackLastMigration(db, *migrationsDir, zl)
		if err != nil {
			zl.Fatal("rollback failed", zap.Error(err))
		}
		zl.Info("successfully rolled back migration", zap.String("name", name))
		return
	}

	if err := database.RunMigrations(db, *migrationsDir, zl); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	zl.Info("all migrations applied successfully")
}
