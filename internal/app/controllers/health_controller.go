package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthController reports dependency health
type HealthController struct {
	checks map[string]HealthCheck
}

// NewHealthController creates a health controller over the named checks
func NewHealthController(checks map[string]HealthCheck) *HealthController {
	return &HealthController{checks: checks}
}

// Health runs every check
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "All dependencies reachable"
// @Failure 503 {object} dto.HealthResponse "A dependency is down"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Checks: make(map[string]string, len(c.checks))}
	status := http.StatusOK
	for name, check := range c.checks {
		if err := check(reqCtx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	ctx.JSON(status, resp)
}
