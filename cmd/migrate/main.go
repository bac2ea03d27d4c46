package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/config"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/database"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of migrations to apply, 0 for all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := database.Migrate(cfg.Database, database.Direction(*direction), *steps, logr); err != nil {
		logr.Fatal("migration failed", zap.Error(err))
	}
}
