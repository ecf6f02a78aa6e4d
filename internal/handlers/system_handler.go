package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.smokefree/internal/auth0"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the unauthenticated liveness, readiness and client
// configuration endpoints.
type SystemHandler struct {
	db         Pinger
	cache      Pinger
	authConfig auth0.ClientConfig
	logger     *zap.SugaredLogger
}

func NewSystemHandler(db, cache Pinger, authConfig auth0.ClientConfig, logger *zap.SugaredLogger) *SystemHandler {
	return &SystemHandler{db: db, cache: cache, authConfig: authConfig, logger: logger}
}

func (h *SystemHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports 503 until both Postgres and Redis answer.
func (h *SystemHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "cache": "ok"}
	ready := true
	if err := h.db.Ping(ctx); err != nil {
		logWithContext(h.logger, c, "warn", "Database not ready", "error", err)
		checks["database"] = "unavailable"
		ready = false
	}
	if err := h.cache.Ping(ctx); err != nil {
		logWithContext(h.logger, c, "warn", "Cache not ready", "error", err)
		checks["cache"] = "unavailable"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}

// AuthConfig gives public clients what they need for the PKCE flow.
func (h *SystemHandler) AuthConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.authConfig)
}
