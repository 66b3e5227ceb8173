package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError logs an error and writes an HTTP error response to the client.
// Server errors are logged at error level, client errors at debug.
func HttpError(c *gin.Context, message string, status int, err error) {
	event := log.Debug()
	if status >= 500 {
		event = log.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", RequestID(c)).
		Msg(message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
