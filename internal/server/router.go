package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vbarroso/manutencao-backend/internal/handlers"
)

type RouterConfig struct {
	PlanningHandler *handlers.PlanningHandler
	PolicyHandler   *handlers.PolicyHandler
	ImportHandler   *handlers.ImportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Planning grid
		api.GET("/planning/grid", cfg.PlanningHandler.GetGrid)
		api.GET("/planning/grid/export", cfg.PlanningHandler.ExportGridCSV)
		api.POST("/planning/generate", cfg.PlanningHandler.Generate)
		api.POST("/planning/generate/cell", cfg.PlanningHandler.GenerateCell)
		// Policies
		api.GET("/policies", cfg.PolicyHandler.ListActive)
		api.POST("/policies", cfg.PolicyHandler.Upsert)
		// Import
		api.POST("/import/preview", cfg.ImportHandler.Preview)
		api.POST("/import/commit", cfg.ImportHandler.Commit)
	}

	return router
}
