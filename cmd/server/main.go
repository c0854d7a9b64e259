package main

import (
	"log"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/princeprakhar/restaurant-directory/internal/api/routes"
	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/internal/database"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL, cfg.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize database: ", err)
	}

	var store services.ImageStore
	if cfg.StorageEnabled() {
		s3Service, err := services.NewS3Service(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
		if err != nil {
			logger.Fatal("Failed to initialize S3: ", err)
		}
		store = s3Service
	} else {
		logger.Warn("S3_BUCKET not set, photo uploads are disabled")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routes.SetupRoutes(router, db, cfg, store)

	logger.Info("Server starting on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server: ", err)
	}
}
