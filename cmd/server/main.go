package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RenCostamagna/comidita-backend/config"
	"github.com/RenCostamagna/comidita-backend/internal/app/controller"
	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/app/service"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/RenCostamagna/comidita-backend/internal/router"
	"github.com/RenCostamagna/comidita-backend/internal/scheduler"
	"github.com/RenCostamagna/comidita-backend/internal/storage"
	"github.com/RenCostamagna/comidita-backend/internal/websocket"
	"github.com/RenCostamagna/comidita-backend/pkg/logger"
	"github.com/RenCostamagna/comidita-backend/pkg/places"
	"github.com/RenCostamagna/comidita-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Comidita Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (seeds the achievement ladder too)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis es opcional: sin Redis no hay cache de búsquedas ni
	// blacklist de tokens, pero el servidor arranca igual
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without cache", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// External clients
	placesClient := places.NewClient(cfg.GooglePlaces)
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// WebSocket hub for real-time notifications
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	placeRepo := repository.NewPlaceRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	achievementRepo := repository.NewAchievementRepository(db.GetDB())
	notificationRepo := repository.NewNotificationRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	placeService := service.NewPlaceService(placeRepo, placesClient)
	achievementService := service.NewAchievementService(achievementRepo, reviewRepo, userRepo, notificationService)
	reviewService := service.NewReviewService(reviewRepo, userRepo, placeService, achievementService, notificationService)
	aiService := service.NewAIService(cfg)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	placeController := controller.NewPlaceController(placeService)
	reviewController := controller.NewReviewController(reviewService, aiService)
	achievementController := controller.NewAchievementController(achievementService)
	notificationController := controller.NewNotificationController(notificationService, hub)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		placeController,
		reviewController,
		achievementController,
		notificationController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start nightly place refresh
	placeRefreshScheduler := scheduler.NewPlaceRefreshScheduler(placeService)
	if err := placeRefreshScheduler.Start(); err != nil {
		logger.Error("Failed to start place refresh scheduler", err)
	}
	defer placeRefreshScheduler.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
