package api

import (
	"github.com/gin-gonic/gin"
	"github.com/marco/workyard/internal/api/handler"
	"github.com/marco/workyard/internal/api/middleware"
	"github.com/marco/workyard/internal/config"
	"github.com/marco/workyard/internal/report"
)

// SetupRouter configures the Gin engine with all middleware and routes.
func SetupRouter(cfg *config.Config, reports *report.Service) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	router.GET("/health", healthHandler.Health)

	reportHandler := handler.NewReportHandler(reports)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identity())
	{
		v1.GET("/reports", reportHandler.List)
		v1.GET("/reports/templates", reportHandler.Templates)
		v1.POST("/reports/generate", reportHandler.Generate)
		v1.POST("/reports/schedule", reportHandler.Schedule)
		v1.GET("/reports/:id", reportHandler.Get)
		v1.GET("/reports/:id/download", reportHandler.Download)
		v1.DELETE("/reports/:id", reportHandler.Delete)
	}

	return router
}
