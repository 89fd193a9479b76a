package http

import (
	"github.com/drinkbook/client/config"
	"github.com/gin-gonic/gin"
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
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(handler.log.Named("access")))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		drinks := v1.Group("/drinks")
		{
			drinks.GET("", handler.ListDrinks)
			drinks.POST("", handler.CreateDrink)
			drinks.GET("/types", handler.ListDrinkTypes)
			drinks.GET("/random", handler.RandomDrink)
			drinks.POST("/generate", handler.GenerateDrink)
			drinks.GET("/:id", handler.GetDrink)
			drinks.PATCH("/:id/favorite", handler.ToggleFavorite)
		}

		v1.GET("/ingredients", handler.ListIngredients)

		v1.GET("/error", handler.GetError)
		v1.DELETE("/error", handler.ClearError)

		sessions := v1.Group("/image-sessions")
		{
			sessions.POST("", handler.OpenImageSession)
			sessions.GET("/:id", handler.GetImageSession)
			sessions.DELETE("/:id", handler.CloseImageSession)
			sessions.PUT("/:id/query", handler.SetImageQuery)
			sessions.PUT("/:id/page", handler.SetImagePage)
		}
	}

	return router
}
