package main

import (
	"context"
	"log"

	"github.com/SawLinThant/hotel-management-backend-api/cmd"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository/memory"
	"github.com/SawLinThant/hotel-management-backend-api/internal/wire"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/database"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	var repos *repository.Repository
	switch config.Database.Driver {
	case utils.DriverMemory:
		repos = memory.New(logger).Repository()
		logger.Warn("Using in-memory store, data is lost on restart")
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if config.Database.Migrate {
			if err := database.Migrate(context.Background(), db); err != nil {
				logger.Fatal("Failed to apply schema", zap.Error(err))
			}
			logger.Info("Schema applied")
		}

		logger.Info("Database connected successfully")
		repos = repository.NewRepository(db, logger)
	}

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
