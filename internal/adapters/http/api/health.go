// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/draftedge/farmline/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles health check requests.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /healthz and GET /metrics requests. A healthy
// process answers with the Prometheus exposition of the custom registry,
// so the probe and the scrape share one endpoint implementation.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
