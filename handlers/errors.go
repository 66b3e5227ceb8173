package handlers

import (
	"GlobalDent/middlewares"
	"GlobalDent/services"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		var details interface{} = validationErr.Err.Error()
		if fields, ok := validationErr.Err.(json.Marshaler); ok {
			details = fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   services.ErrValidation.Error(),
			"details": details,
		})
	case errors.Is(err, services.ErrNotFound):
		middlewares.HttpError(c, err.Error(), http.StatusNotFound, err)
	case errors.Is(err, services.ErrProcedureInUse):
		middlewares.HttpError(c, services.ErrProcedureInUse.Error(), http.StatusConflict, err)
	case errors.Is(err, services.ErrConflict):
		middlewares.HttpError(c, err.Error(), http.StatusConflict, err)
	case errors.Is(err, services.ErrToothNotInConsultation), errors.Is(err, services.ErrIncompleteOdontogram):
		middlewares.HttpError(c, err.Error(), http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrInvalidCredentials):
		middlewares.HttpError(c, err.Error(), http.StatusUnauthorized, err)
	default:
		middlewares.HttpError(c, "Internal server error", http.StatusInternalServerError, err)
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// optionalQueryID parses an optional numeric query parameter.
func optionalQueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	value := uint(id)
	return &value, true
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
