package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"readleaf/cmd/api/handlers"
	"readleaf/cmd/api/middleware"
	"readleaf/cmd/api/services"
)

func New(c *services.Container) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.POST("/articles/validate", handlers.ValidateArticlesHandler(c.Validation))
		api.GET("/articles/:id", handlers.GetArticleHandler(c.Articles))
		api.POST("/articles/:id/read", handlers.IncrementReadCountHandler(c.Articles))
	}

	return r
}
