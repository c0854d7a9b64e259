package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/api/handlers"
	"github.com/princeprakhar/restaurant-directory/internal/api/middleware"
	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/services"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"gorm.io/gorm"
)

// targetPaths is the URL segment of every reviewable kind.
var targetPaths = map[models.TargetKind]string{
	models.TargetRestaurant: "restaurants",
	models.TargetMenuItem:   "menu-items",
}

// SetupRoutes wires services, handlers and middleware. store may be nil,
// in which case photo uploads answer 503.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, store services.ImageStore) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailService)
	reviewService := services.NewReviewService(db)
	restaurantService := services.NewRestaurantService(db, reviewService)
	photoService := services.NewPhotoService(db, store)
	interactionService := services.NewInteractionService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	photoHandler := handlers.NewPhotoHandler(photoService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)

	requireAuth := middleware.AuthMiddleware(cfg)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", requireAuth, authHandler.Logout)
		auth.POST("/logout-all", requireAuth, authHandler.LogoutAll)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.GET("/profile", requireAuth, authHandler.GetProfile)
		auth.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		auth.POST("/password/change", requireAuth, passwordHandler.ChangePassword)
	}

	// Everything below renders per viewer.
	browse := api.Group("", middleware.OptionalAuth(cfg), middleware.ViewerMiddleware(authService))

	browse.GET("/cuisines", restaurantHandler.ListCuisines)

	restaurants := browse.Group("/restaurants")
	{
		restaurants.GET("", restaurantHandler.ListRestaurants)
		restaurants.GET("/:id", restaurantHandler.GetRestaurant)
		restaurants.POST("/:id/bookmark", interactionHandler.ToggleBookmark)
		restaurants.POST("/:id/visited", interactionHandler.ToggleVisited)
	}

	browse.GET("/menu-items/:id", restaurantHandler.GetMenuItem)

	for kind, path := range targetPaths {
		target := browse.Group("/"+path+"/:id", handlers.TargetKind(kind))
		target.GET("/reviews", reviewHandler.ListReviews)
		target.POST("/reviews", reviewHandler.SubmitReview)
		target.POST("/photos", requireAuth, photoHandler.CreatePhoto)
		target.POST("/photos/upload", requireAuth, photoHandler.UploadPhotos)
	}

	me := browse.Group("/me")
	{
		me.GET("/bookmarks", interactionHandler.ListBookmarks)
		me.GET("/visited", interactionHandler.ListVisited)
	}

	logger.Info("Routes initialized successfully")
}
