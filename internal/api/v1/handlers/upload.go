package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "whisper-batch/internal/api/errors"
	"whisper-batch/internal/api/middleware"
	"whisper-batch/internal/api/v1/services"
)

// UploadHandler handles audio uploads
type UploadHandler struct {
	service services.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload handles POST /upload and POST /api/v1/upload.
// Multipart fields: file (required), segment (default "unknown").
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			middleware.HandleError(c, apierrors.NewPayloadTooLargeError("File too large"))
		case c.Request.MultipartForm != nil && len(c.Request.MultipartForm.Value["file"]) > 0:
			// a file part without a filename is parsed as a plain value
			middleware.HandleError(c, apierrors.NewBadRequestError("No selected file"))
		default:
			middleware.HandleError(c, apierrors.NewBadRequestError("No file part"))
		}
		return
	}
	if fileHeader.Filename == "" {
		middleware.HandleError(c, apierrors.NewBadRequestError("No selected file"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleError(c, apierrors.NewInternalErrorWithReason("Failed to read uploaded file", err.Error()))
		return
	}
	defer file.Close()

	resp, err := h.service.Transcribe(c.Request.Context(), services.UploadRequest{
		ClientID: c.GetString(middleware.ClientIDKey),
		Segment:  c.DefaultPostForm("segment", services.DefaultSegment),
		Body:     file,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
