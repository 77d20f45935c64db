package main

import (
	"ocucheck/internal/config"
	"ocucheck/internal/database"
	logger "ocucheck/internal/logging"
	"ocucheck/internal/models"
	"ocucheck/internal/router"
	"ocucheck/internal/services"
	"ocucheck/internal/staircase"

	"go.uber.org/zap"
)

func main() {
	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Configuration
	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Database
	database.Init(log)

	// Load the screening test definitions at startup
	screening, err := models.LoadScreening(config.Conf.Screening.DefinitionsFile)
	if err != nil {
		log.Fatal("Failed to load screening definitions", zap.Error(err))
	}

	// Active test sessions live in memory until finalized or swept
	manager := staircase.NewManager()

	// Start the reminder/sweeper scheduler
	emailService := services.NewEmailService(log)
	scheduler := services.NewScheduler(log, emailService, manager)
	scheduler.Start()

	// Setup router, passing the logger to it
	r := router.Setup(log, screening, manager)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
