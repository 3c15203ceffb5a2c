package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-batch/internal/api/auth"
	"whisper-batch/internal/api/middleware"
	"whisper-batch/internal/api/v1/handlers"
	"whisper-batch/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	UploadService   services.UploadService
	ProviderService services.ProviderService
	// Verifier is nil when authorization is disabled.
	Verifier         auth.Verifier
	Observer         middleware.UploadObserver
	MaxContentLength int64
	Logger           *zap.Logger
}

// RegisterRoutes registers the upload endpoints. POST /upload is kept at the root
// for existing clients; the same handler is mounted under /api/v1.
func RegisterRoutes(router *gin.Engine, container *ServiceContainer) {
	logger := container.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	uploadHandler := handlers.NewUploadHandler(container.UploadService)
	upload := []gin.HandlerFunc{
		middleware.ObserveUploads(container.Observer),
		middleware.LimitBody(container.MaxContentLength),
		middleware.Authorize(container.Verifier, logger),
		uploadHandler.Upload,
	}

	router.POST("/upload", upload...)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/upload", upload...)

		providerHandler := handlers.NewProviderHandler(container.ProviderService)
		v1.GET("/providers", providerHandler.List)
	}
}
