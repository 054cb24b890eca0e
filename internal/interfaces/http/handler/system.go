package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessCheck reports whether a dependency is ready to serve
type ReadinessCheck func() error

// SystemHandler handles health and readiness endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	checks    map[string]ReadinessCheck
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		checks:    make(map[string]ReadinessCheck),
	}
}

// RegisterCheck adds a named readiness check
func (h *SystemHandler) RegisterCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// HealthResponse represents the health endpoint payload
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// ReadyResponse represents the readiness endpoint payload
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Ready handles GET /ready. It runs all registered checks and reports
// 503 when any dependency is unavailable.
func (h *SystemHandler) Ready(c *gin.Context) {
	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, ReadyResponse{Status: "unavailable", Checks: results})
		return
	}

	h.Success(c, ReadyResponse{Status: "ready", Checks: results})
}
