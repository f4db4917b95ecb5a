package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rakshithjm97/ivms3/internal/config"
)

// Pinger is anything readiness depends on: the pool, the redis cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	deps map[string]Pinger
	now  func() time.Time
}

// NewHealthHandler takes the named dependencies checked by Readyz. Nil entries are skipped.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps, now: time.Now}
}

// Status is the public connectivity probe the UI polls.
func (h *HealthHandler) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "connected",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	checks := make(gin.H, len(h.deps))
	ready := true

	for name, dep := range h.deps {
		if dep == nil {
			continue
		}
		if err := dep.Ping(cctx); err != nil {
			slog.Default().WarnContext(ctx.Request.Context(), "readiness check failed", "dep", name, "err", err)
			checks[name] = "down"
			ready = false
			continue
		}
		checks[name] = "up"
	}

	if !ready {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "checks": checks})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}
