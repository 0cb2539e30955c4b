// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/fitcheck/internal/domain/types"
	"github.com/okian/fitcheck/pkg/metrics"
)

// Readiness reports whether the backing service accepts requests.
type Readiness interface {
	Ready() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	ready Readiness
	now   func() time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready Readiness) *HealthHandler {
	return &HealthHandler{ready: ready, now: time.Now}
}

// HandleHealth handles GET /api/health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := types.HealthResponse{Status: "ok", Timestamp: h.now().UTC().Format(time.RFC3339)}
	if h.ready != nil && !h.ready.Ready() {
		resp.Status = "starting"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// MetricsHandler serves the Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
