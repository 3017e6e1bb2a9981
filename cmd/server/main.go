package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"flicklist/internal/api"
	"flicklist/internal/auth"
	"flicklist/internal/avatar"
	"flicklist/internal/config"
	"flicklist/internal/database"
	"flicklist/internal/models"
	"flicklist/internal/repository"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}
	cfg := config.Load()

	// Database connection
	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// Initialize services
	tokens := auth.NewTokenService(cfg.JWTSecret)
	users := repository.NewUserRepository(db)

	avatars, err := avatar.NewManager(cfg.StoragePath, users)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize avatar storage")
	}

	// Initialize REST API server
	apiServer := api.NewServer(db, tokens, avatars)

	logrus.WithField("port", cfg.HTTPPort).Info("starting HTTP server")
	if err := http.ListenAndServe("0.0.0.0:"+cfg.HTTPPort, apiServer.GetRouter()); err != nil {
		logrus.WithError(err).Fatal("HTTP server failed")
	}
}
