package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// rootHandler handles requests to the root path
func rootHandler(c *gin.Context) {
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write([]byte("GlobalDent API")); err != nil {
		log.Error().Err(err).Msg("Error writing response")
	}
}

// healthHandler reports whether the database and Redis answer a ping.
func healthHandler(db *gorm.DB, client *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"database": "ok", "redis": "disabled"}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "unavailable"
			healthy = false
		}
		if client != nil {
			status["redis"] = "ok"
			if err := client.Ping(ctx).Err(); err != nil {
				status["redis"] = "unavailable"
				healthy = false
			}
		}

		if !healthy {
			c.JSON(http.StatusServiceUnavailable, status)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// SetupRootRoute registers the root and health routes
func SetupRootRoute(router *gin.Engine, db *gorm.DB, client *redis.Client) {
	router.GET("/", rootHandler)
	router.GET("/healthz", healthHandler(db, client))
}
