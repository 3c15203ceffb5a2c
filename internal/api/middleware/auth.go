package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whisper-batch/internal/api/auth"
	apierrors "whisper-batch/internal/api/errors"
)

// ClientIDKey is the gin context key holding the authorized client id.
const ClientIDKey = "client_id"

// Authorize requires a verified Authorization header. A nil verifier lets every
// request through with an empty client id.
func Authorize(verifier auth.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			HandleError(c, apierrors.NewUnauthorizedError("Authorization header missing"))
			return
		}

		clientID, err := verifier.Verify(c.Request.Context(), header)
		if err != nil {
			logger.Warn("authorization rejected",
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err))
			switch {
			case errors.Is(err, auth.ErrInvalidResponse):
				HandleError(c, apierrors.NewInternalError("Invalid JSON response from authorization server"))
			case errors.Is(err, auth.ErrUnavailable):
				HandleError(c, apierrors.NewInternalError("Authorization server unavailable"))
			default:
				HandleError(c, apierrors.NewUnauthorizedError("Authorization failed"))
			}
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}

// LimitBody rejects bodies larger than limit bytes with 413.
// Declared lengths are checked up front; chunked bodies are capped while reading.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			HandleError(c, apierrors.NewPayloadTooLargeError("File too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
