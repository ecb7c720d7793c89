package api

import (
	"context"  // Deadline detection
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"library_system/internal/domain" // Field-attributed validation errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// renderValidation renders collected field errors as a 422.
func renderValidation(c *gin.Context, errs domain.Errors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
}

// renderNotFound renders a uniform 404 for a missing resource.
func renderNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
}

// renderStorageError logs a storage failure and renders it without leaking
// internal detail. An expired request deadline surfaces as a timeout
// rather than a generic server error.
func renderStorageError(c *gin.Context, msg string, err error) {
	logrus.WithFields(logrus.Fields{
		"path":  c.FullPath(),
		"error": err.Error(),
	}).Error(msg)
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
