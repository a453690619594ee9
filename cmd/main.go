package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/decisionlab/simulator-backend/internal/db"
	"github.com/decisionlab/simulator-backend/internal/handlers"
	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/repos"
	"github.com/decisionlab/simulator-backend/internal/server"
	"github.com/decisionlab/simulator-backend/internal/services"
	"github.com/decisionlab/simulator-backend/internal/utils"
)

func main() {
	// Local overrides first, shared defaults second.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres: the store and its schema must be ready before anything
	// else starts.
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	sessionRepo := repos.NewSessionRepo(thePG, log)
	referenceRepo := repos.NewReferenceRepo(thePG, log)
	derivedRepo := repos.NewDerivedRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	sessionService := services.NewSessionService(thePG, log, sessionRepo, referenceRepo, derivedRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	sessionHandler := handlers.NewSessionHandler(log, sessionService)

	// Router
	log.Info("Setting up router from main...")
	allowedOrigins := utils.GetEnvAsList("ALLOWED_ORIGINS", nil, log)
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AllowedOrigins: allowedOrigins,
		SessionHandler: sessionHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
