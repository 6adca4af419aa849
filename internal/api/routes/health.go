package routes

import (
	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers/health"
)

// RegisterHealthRoutes registers the liveness probe
func RegisterHealthRoutes(r chi.Router, db health.Pinger) {
	h := health.NewHandler(db)
	r.Get("/health", h.HandleHealth)
}
