package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"directory-service/pkg/config"
	"directory-service/pkg/database"
	"directory-service/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
)

func main() {
	op := flag.String("op", "", "operation: up, down, version, force")
	steps := flag.Int("steps", 0, "number of steps for up/down (0 = all), or the version for force")
	flag.Parse()

	if *op == "" {
		fmt.Println("Usage: go run ./cmd/migrate -op=[up|down|version|force] -steps=[n]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	m, err := database.NewMigrator(cfg.DB.GetURL())
	if err != nil {
		log.Fatal("Could not create migrator", zap.Error(err))
	}
	defer m.Close()

	switch *op {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("No migrations applied")
			return
		}
		if err != nil {
			log.Fatal("Could not read version", zap.Error(err))
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return
	case "force":
		if *steps <= 0 {
			log.Fatal("Please specify the version to force with -steps")
		}
		err = m.Force(*steps)
	default:
		log.Fatal("Unknown operation", zap.String("op", *op))
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No changes detected")
		return
	}
	if err != nil {
		log.Fatal("Migration failed", zap.String("op", *op), zap.Error(err))
	}
	log.Info("Migration success", zap.String("op", *op))
}
