// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appdesk/crm-backend/internal/config"
	"github.com/appdesk/crm-backend/internal/handlers"
	"github.com/appdesk/crm-backend/internal/middleware"
	"github.com/appdesk/crm-backend/internal/services"
	"github.com/appdesk/crm-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	applicationService := services.NewApplicationService(db)
	commentService := services.NewCommentService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Application routes
		applications := v1.Group("/applications")
		{
			// Public submission endpoint
			applications.POST("", middleware.SubmitRateLimit(), applicationHandler.CreateApplication)

			// Staff routes
			protected := applications.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("", applicationHandler.GetApplications)
				protected.GET("/export", applicationHandler.ExportApplications)
				protected.GET("/:id", applicationHandler.GetApplication)
				protected.PUT("/:id", applicationHandler.UpdateApplication)
				protected.DELETE("/:id", applicationHandler.DeleteApplication)

				protected.GET("/:id/comments", commentHandler.GetComments)
				protected.POST("/:id/comments", commentHandler.CreateComment)
			}
		}

		// Comment routes
		comments := v1.Group("/comments")
		comments.Use(middleware.AuthRequired())
		{
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	return r
}
