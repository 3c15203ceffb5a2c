package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"whisper-batch/internal/api/middleware"
	"whisper-batch/internal/api/v1/services"
)

// ProviderHandler handles provider-related API endpoints
type ProviderHandler struct {
	service services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// List handles GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, providers)
}
