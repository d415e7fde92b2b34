// main.go
package main

import (
	"log"

	"salon-refunds/cmd"
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/events"
	"salon-refunds/internal/gateway"
	"salon-refunds/internal/reconcile"
	"salon-refunds/internal/wire"
	"salon-refunds/pkg/database"
	"salon-refunds/pkg/utils"

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
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Open the local gateway attempt journal
	journal, err := reconcile.Open(config.Journal.Path)
	if err != nil {
		logger.Fatal("Failed to open attempt journal", zap.Error(err))
	}
	defer journal.Close()

	// Refund gateway client
	gw, err := gateway.NewOmiseGateway(config.Gateway)
	if err != nil {
		logger.Fatal("Failed to create refund gateway client", zap.Error(err))
	}

	// Optional event publisher; refunds work fine without a broker
	var pub *events.Publisher
	if config.Events.URL != "" {
		pub, err = events.NewPublisher(config.Events.URL, config.Events.Exchange)
		if err != nil {
			logger.Warn("Event publisher disabled", zap.Error(err))
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, gw, journal, pub, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
