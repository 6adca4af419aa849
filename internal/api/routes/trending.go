package routes

import (
	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers/trending"
)

// RegisterTrendingRoutes registers the trending topic listing
func RegisterTrendingRoutes(r chi.Router, topics trending.TopicLister) {
	h := trending.NewGetAllHandler(topics)
	r.Get("/trending/get_all", h.HandleGetAll)
}
