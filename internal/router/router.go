package router

import (
	"github.com/RenCostamagna/comidita-backend/config"
	"github.com/RenCostamagna/comidita-backend/internal/app/controller"
	"github.com/RenCostamagna/comidita-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	placeController        *controller.PlaceController
	reviewController       *controller.ReviewController
	achievementController  *controller.AchievementController
	notificationController *controller.NotificationController
	uploadController       *controller.UploadController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	placeController *controller.PlaceController,
	reviewController *controller.ReviewController,
	achievementController *controller.AchievementController,
	notificationController *controller.NotificationController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		placeController:        placeController,
		reviewController:       reviewController,
		achievementController:  achievementController,
		notificationController: notificationController,
		uploadController:       uploadController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Comidita API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		places := v1.Group("/places")
		{
			places.GET("", r.placeController.ListPlaces)
			places.GET("/categories", r.placeController.GetCategories)
			places.GET("/search", r.placeController.SearchPlaces)
			places.GET("/:id", r.placeController.GetPlace)
			places.GET("/:id/reviews", r.reviewController.ListPlaceReviews)
			places.POST("/resolve", r.authMiddleware.Authenticate(), r.placeController.ResolvePlace)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/:id", r.reviewController.GetReview)
			reviews.POST("", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			reviews.POST("/enhance", r.authMiddleware.Authenticate(), r.reviewController.EnhanceComment)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.GET("/me/reviews", r.reviewController.ListMyReviews)
			users.GET("/me/reviews/export", r.reviewController.ExportMyReviews)
		}

		achievements := v1.Group("/achievements")
		achievements.Use(r.authMiddleware.Authenticate())
		{
			achievements.GET("/progress", r.achievementController.GetProgress)
			achievements.GET("/incomplete", r.achievementController.GetIncomplete)
			achievements.GET("/me", r.achievementController.GetMyAchievements)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PUT("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PUT("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		// WebSocket: el token viaja por query param
		v1.GET("/ws", r.authMiddleware.Authenticate(), r.notificationController.WebSocketHandler)

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/review-photo", r.uploadController.UploadReviewPhoto)
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
