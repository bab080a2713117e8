package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/eightysix/analytics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// SystemHandler serves liveness and dependency health
type SystemHandler struct {
	BaseHandler
	version string
	started time.Time
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewSystemHandler creates a new SystemHandler. checks are keyed by the
// dependency name reported in the response.
func NewSystemHandler(base BaseHandler, version string, checks map[string]HealthCheck) *SystemHandler {
	return &SystemHandler{
		BaseHandler: base,
		version:     version,
		started:     time.Now(),
		checks:      checks,
		timeout:     2 * time.Second,
	}
}

// HealthResponse reports the service and per-dependency status
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. Any failing check turns the response into a
// 503 so load balancers drain the instance.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Checks:    make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "up"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
