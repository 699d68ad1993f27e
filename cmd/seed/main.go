package main

import (
	"context"
	"time"

	"directory-service/internal/repository"
	"directory-service/internal/service"
	"directory-service/pkg/config"
	"directory-service/pkg/database"
	"directory-service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	categories := service.NewCategoryService(repository.NewCategoryRepo(db), log)
	added, existing, err := categories.Seed(ctx, service.DefaultCategories)
	if err != nil {
		log.Fatal("Category seeding failed", zap.Error(err))
	}

	log.Info("Categories seeded", zap.Int("added", added), zap.Int("existing", existing))
}
