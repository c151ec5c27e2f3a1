package http

import (
	"github.com/gin-gonic/gin"

	"github.com/medifarma/backend/config"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pharmacies", handler.ListPharmacies)
		v1.GET("/search", handler.Search)
		v1.GET("/view", handler.View)
		v1.GET("/export", handler.Export)

		// Admin CRUD over the persisted dataset. Authentication lives in
		// the collaborator layer fronting this service.
		admin := v1.Group("/admin")
		{
			admin.POST("/records", handler.CreateRecord)
			admin.PUT("/records/:id", handler.UpdateRecord)
			admin.DELETE("/records/:id", handler.DeleteRecord)
			admin.POST("/records/replace", handler.ReplaceRecords)
		}
	}

	return router
}
