package controllers

import (
	"context"
	"net/http"
	"time"

	"board-api/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type HealthController struct {
	db    *gorm.DB
	store cache.Store
}

func NewHealthController(db *gorm.DB, store cache.Store) *HealthController {
	return &HealthController{db: db, store: store}
}

// Ping reports whether the database and the cache store answer. The cache being down only
// degrades the service, so it does not turn the response into a 503.
func (hc *HealthController) Ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status := http.StatusOK
	database := "up"
	if sqlDB, err := hc.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		database = "down"
		status = http.StatusServiceUnavailable
	}

	cacheState := "up"
	if err := hc.store.Ping(ctx); err != nil {
		cacheState = "degraded"
	}

	healthy := "healthy"
	if status != http.StatusOK {
		healthy = "unhealthy"
	}

	c.JSON(status, gin.H{
		"message":  "pong",
		"status":   healthy,
		"database": database,
		"cache":    cacheState,
	})
}
