package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asyncscrum/scrum-platform/internal/apperrors"
)

// respondError converts a core error into the uniform error payload. Store
// errors are logged with full detail and surfaced as a generic message only.
func respondError(c *gin.Context, err error, generic string) {
	status := apperrors.StatusCode(err)
	message := err.Error()
	if apperrors.IsStoreError(err) {
		zap.L().Error(generic,
			zap.String("path", c.FullPath()),
			zap.Error(err))
		message = generic
	}
	c.JSON(status, gin.H{"error": message})
}
