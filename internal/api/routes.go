package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(environment string, handler *Handler) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/recommend", handler.Recommend)
		api.POST("/crawl", handler.Crawl)
		api.GET("/crawl", handler.SnapshotEntry)
		api.GET("/product-detail", handler.ProductDetail)
	}

	return router
}
