package routes

import (
	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers/interaction"
	"ContentDiscovery/internal/core/interactions"
)

// RegisterInteractionRoutes registers like, share and fav toggles
func RegisterInteractionRoutes(r chi.Router, service interactions.Service) {
	h := interaction.NewHandler(service)

	r.Route("/interactions/{user}", func(r chi.Router) {
		r.Post("/like/{snap}", h.HandleLike)
		r.Delete("/unlike/{snap}", h.HandleUnlike)
		r.Post("/share/{snap}", h.HandleShare)
		r.Delete("/unshare/{snap}", h.HandleUnshare)
		r.Post("/fav/{snap}", h.HandleFav)
		r.Delete("/unfav/{snap}", h.HandleUnfav)
	})
}
