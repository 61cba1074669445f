package main

import (
	"context"
	"log"

	"movie-booking/cmd"
	"movie-booking/internal/data/repository"
	"movie-booking/internal/events"
	"movie-booking/internal/wire"
	"movie-booking/pkg/database"
	"movie-booking/pkg/payment"
	"movie-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Redis is optional; without it the rate limiter passes everything.
	rdb := database.InitRedis(config.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	publisher := events.NewNoopPublisher()
	if config.AMQP.URL != "" {
		p, err := events.NewAMQPPublisher(config.AMQP.URL, logger)
		if err != nil {
			logger.Warn("Event broker unavailable, events disabled", zap.Error(err))
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	gateway := payment.NewStubGateway(logger)

	repos := repository.NewRepository(db, logger)

	app := wire.Wiring(db, rdb, repos, config, gateway, publisher, logger)

	// Reclaim expired holds in the background for the process lifetime.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	app.Service.Inventory.StartSweeper(sweepCtx)

	cmd.APIServer(app.Router, config.App.Port, logger)
}
