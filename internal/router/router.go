package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/hertz-contrib/swagger"
	swaggerFiles "github.com/swaggo/files"

	"github.com/oeelens/oee-apiserver/internal/handler"
	"github.com/oeelens/oee-apiserver/internal/middleware"
)

// Setup sets up all routes
func Setup(
	h *server.Hertz,
	machineHandler *handler.MachineHandler,
	chatHandler *handler.ChatHandler,
	exportHandler *handler.ExportHandler,
	healthHandler *handler.HealthHandler,
) {
	// Global middleware
	h.Use(middleware.Recovery())
	h.Use(middleware.Logger())
	h.Use(middleware.CORS())

	// Swagger API documentation
	// Access at: http://localhost:8080/swagger/index.html
	h.GET("/swagger/*any", swagger.WrapHandler(swaggerFiles.Handler))

	// Health check routes
	h.GET("/ping", healthHandler.Ping)
	h.GET("/health/ready", healthHandler.Readiness)
	h.GET("/health/live", healthHandler.Liveness)

	// API v1 routes
	apiV1 := h.Group("/api/v1")
	{
		machines := apiV1.Group("/machines")
		{
			machines.GET("", machineHandler.List)
			machines.GET("/:machine/files", machineHandler.ListFiles)
		}

		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/export-pdf", exportHandler.ExportPDF)
	}
}
