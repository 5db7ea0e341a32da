package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cartpilot/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		groceries := v1.Group("/groceries")
		{
			groceries.POST("/submit", handler.SubmitGroceries)
		}

		agent := v1.Group("/agent")
		{
			agent.POST("/goal", handler.RunGoal)
		}
	}

	return router
}
