package routes

import (
	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers/snap"
	"ContentDiscovery/internal/core/snaps"
)

// RegisterSnapRoutes registers the snap write endpoints under /feed
func RegisterSnapRoutes(r chi.Router, service snaps.Service) {
	createHandler := snap.NewCreateHandler(service)
	updateHandler := snap.NewUpdateHandler(service)

	r.Post("/feed/post", createHandler.HandlePost)
	r.Post("/feed/reply", createHandler.HandleReply)

	r.Put("/feed/update_snap", updateHandler.HandleUpdate)
	r.Put("/feed/set_public/{snap_id}", updateHandler.HandleSetPublic)
	r.Put("/feed/set_private/{snap_id}", updateHandler.HandleSetPrivate)
	r.Delete("/feed/snap/{snap_id}", updateHandler.HandleDelete)
}
