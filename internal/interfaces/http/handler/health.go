package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simpro/backend/internal/interfaces/http/dto"
)

const healthCheckTimeout = 2 * time.Second

// PingFunc reports whether a backing dependency answers
type PingFunc func(ctx context.Context) error

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	checks    map[string]PingFunc
}

// NewHealthHandler creates a new HealthHandler. Every check is run on each
// probe; a failing check turns the answer into 503.
func NewHealthHandler(name, version string, checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
	}
}

// HealthResponse is the probe payload
type HealthResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health runs every dependency check
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Status:    "ok",
	}

	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
	}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// Live answers as long as the process serves requests
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
}
