package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/neo-comb/app/auth"
	"github.com/lysyi3m/neo-comb/app/dashboard"
	"github.com/lysyi3m/neo-comb/app/nasa"
	"github.com/lysyi3m/neo-comb/app/validate"
)

// respondError maps domain errors to status codes and a JSON body of the
// form {"error": ..., "fields": {...}}.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *validate.Error
		authErr       *auth.Error
		nasaAuthErr   *nasa.AuthError
		rateLimitErr  *nasa.RateLimitError
		fetchErr      *nasa.FetchError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": validationErr.Fields})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message, "fields": gin.H{"general": authErr.Message}})
	case errors.Is(err, dashboard.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &rateLimitErr):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
	case errors.As(err, &nasaAuthErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": nasaAuthErr.Message})
	case errors.As(err, &fetchErr) && fetchErr.Timeout, errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": dashboard.ErrNotFound.Error()})
	case errors.As(err, &fetchErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": fetchErr.Message})
	default:
		slog.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bind decodes the JSON body into obj and runs its binding tags. It writes
// the error response and returns false when the body is unusable.
func bind(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var validationErr *validate.Error
	if errors.As(validate.Translate(err, obj), &validationErr) {
		respondError(c, validationErr)
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
	return false
}
