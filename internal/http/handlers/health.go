package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check probes one backing service; nil means it is reachable.
type Check func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes over a named set of
// dependency checks. The in-memory deployment has none.
type HealthHandler struct {
	checks  map[string]Check
	started time.Time
	version string
}

func NewHealthHandler(version string, checks map[string]Check) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		started: time.Now(),
		version: version,
	}
}

// HealthResponse is the readiness body.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// probe runs every check in name order and returns the failures by name.
func (h *HealthHandler) probe(ctx context.Context) (map[string]string, []string) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(names)+1)
	var failed []string
	for _, name := range names {
		start := time.Now()
		if err := h.checks[name](ctx); err != nil {
			results[name] = "unhealthy: " + err.Error()
			failed = append(failed, name)
			continue
		}
		results[name] = "healthy (" + time.Since(start).Round(time.Millisecond).String() + ")"
	}
	return results, failed
}

// Liveness GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	results, failed := h.probe(ctx)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	results["memory_alloc_mb"] = fmt.Sprintf("%.2f", float64(mem.Alloc)/1024/1024)

	resp := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    results,
	}
	code := http.StatusOK
	if len(failed) > 0 {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health GET /health, a short-timeout summary for load balancers.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if _, failed := h.probe(ctx); len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"failed": failed,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}
