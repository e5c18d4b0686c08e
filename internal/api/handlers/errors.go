package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/services"
	"github.com/LewF-Dev/local-help-platform/internal/store"
)

// respondError maps service errors to HTTP responses. fallback is the message
// used for unexpected failures, which are logged and answered with 500.
func respondError(c *gin.Context, err error, fallback string) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, services.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrGateRejected):
		c.JSON(http.StatusConflict, gin.H{"error": "Trade is not accepting enquiries"})
	case errors.Is(err, services.ErrProfileExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Trade profile already exists"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The resource was changed concurrently, please retry"})
	case errors.Is(err, services.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo uploads are not available"})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
