package feed

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/feed"
)

// GetFeedHandler serves feed listings
type GetFeedHandler struct {
	service feed.Service
}

// NewGetFeedHandler creates a new feed handler
func NewGetFeedHandler(service feed.Service) *GetFeedHandler {
	return &GetFeedHandler{service: service}
}

type userListFunc func(ctx context.Context, viewerID, userID string, page feed.Page) ([]feed.SnapView, error)

// HandleHome returns the viewer's home feed
// GET /feed/?user_id=&limit=&offset=
func (h *GetFeedHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	views, err := h.service.Home(r.Context(), r.URL.Query().Get("user_id"), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, feed.Response{Snaps: views})
}

// HandleUserSnaps lists snaps authored by {user}
// GET /feed/{user}/snaps?user_id=
func (h *GetFeedHandler) HandleUserSnaps(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.service.UserSnaps)
}

// HandleUserSnapsAndShares lists snaps authored or shared by {user}
// GET /feed/{user}/snaps_and_shares?user_id=
func (h *GetFeedHandler) HandleUserSnapsAndShares(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.service.UserSnapsAndShares)
}

// HandleUserShares lists snaps shared by {user}
// GET /feed/{user}/shares?user_id=
func (h *GetFeedHandler) HandleUserShares(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.service.UserShares)
}

// HandleUserFavs lists snaps favorited by {user}
// GET /feed/{user}/favs?user_id=
func (h *GetFeedHandler) HandleUserFavs(w http.ResponseWriter, r *http.Request) {
	h.userList(w, r, h.service.UserFavs)
}

func (h *GetFeedHandler) userList(w http.ResponseWriter, r *http.Request, list userListFunc) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	views, err := list(r.Context(), r.URL.Query().Get("user_id"), chi.URLParam(r, "user"), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, feed.Response{Snaps: views})
}

// parsePage reads limit and offset; range checks happen in the service
func parsePage(w http.ResponseWriter, r *http.Request) (feed.Page, bool) {
	limit, err := handlers.QueryInt(r, "limit")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
		return feed.Page{}, false
	}
	offset, err := handlers.QueryInt(r, "offset")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "offset must be an integer")
		return feed.Page{}, false
	}
	return feed.Page{Limit: limit, Offset: offset}, true
}
