package routes

import (
	"github.com/go-chi/chi/v5"

	feedHandlers "ContentDiscovery/internal/api/handlers/feed"
	"ContentDiscovery/internal/api/handlers/filter"
	"ContentDiscovery/internal/core/feed"
)

// RegisterFeedRoutes registers feed reads and content filters
func RegisterFeedRoutes(r chi.Router, service feed.Service) {
	feedHandler := feedHandlers.NewGetFeedHandler(service)
	snapHandler := feedHandlers.NewGetSnapHandler(service)
	filterHandler := filter.NewHandler(service)

	// Both spellings are in use by clients
	r.Get("/feed", feedHandler.HandleHome)
	r.Get("/feed/", feedHandler.HandleHome)

	// Static "snap" beats {user}: a user whose id is literally "snap" cannot
	// reach the listings below, /feed/snap/snaps is a snap lookup.
	r.Get("/feed/snap/{snap_id}", snapHandler.HandleGetSnap)
	r.Get("/feed/snap/{snap_id}/replies", snapHandler.HandleReplies)

	r.Get("/feed/{user}/snaps", feedHandler.HandleUserSnaps)
	r.Get("/feed/{user}/snaps_and_shares", feedHandler.HandleUserSnapsAndShares)
	r.Get("/feed/{user}/shares", feedHandler.HandleUserShares)
	r.Get("/feed/{user}/favs", feedHandler.HandleUserFavs)

	r.Get("/filter/hashtag", filterHandler.HandleHashtag)
	r.Get("/filter/content", filterHandler.HandleContent)
}
