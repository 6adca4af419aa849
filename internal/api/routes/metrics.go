package routes

import (
	"github.com/go-chi/chi/v5"

	metricsHandlers "ContentDiscovery/internal/api/handlers/metrics"
	"ContentDiscovery/internal/core/metrics"
)

// RegisterMetricsRoutes registers aggregate metrics endpoints
func RegisterMetricsRoutes(r chi.Router, service metrics.Service) {
	h := metricsHandlers.NewHandler(service)

	r.Route("/metrics", func(r chi.Router) {
		r.Get("/get_snap_rates", h.HandleSnapRates)
		r.Get("/snaps_frequency", h.HandleSnapsFrequency)
		r.Get("/{user}/user_metrics", h.HandleUserMetrics)
	})
}
