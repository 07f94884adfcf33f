// Package health reports process and database liveness.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/respond"
	"finance-backend/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DB Pinger
}

// NewHandler builds a health handler; db may be nil when running on memory repositories.
func NewHandler(db Pinger) *Handler {
	return &Handler{DB: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	if h.DB == nil {
		respond.OK(c, gin.H{"ok": true, "db": "memory"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		telemetry.Warn("health.db_unreachable", map[string]any{"error": err.Error()})
		respond.JSON(c, http.StatusServiceUnavailable, gin.H{"ok": false, "db": "unreachable"})
		return
	}
	respond.OK(c, gin.H{"ok": true, "db": "ok"})
}
