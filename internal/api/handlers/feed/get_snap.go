package feed

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/feed"
)

// GetSnapHandler serves single snaps and their reply threads
type GetSnapHandler struct {
	service feed.Service
}

// NewGetSnapHandler creates a new snap read handler
func NewGetSnapHandler(service feed.Service) *GetSnapHandler {
	return &GetSnapHandler{service: service}
}

// HandleGetSnap returns one snap annotated for the viewer
// GET /feed/snap/{snap_id}?user_id=
func (h *GetSnapHandler) HandleGetSnap(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetSnap(r.Context(), r.URL.Query().Get("user_id"), chi.URLParam(r, "snap_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, view)
}

// HandleReplies lists direct replies, oldest first
// GET /feed/snap/{snap_id}/replies?user_id=&limit=&offset=
func (h *GetSnapHandler) HandleReplies(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	views, err := h.service.Replies(r.Context(), r.URL.Query().Get("user_id"), chi.URLParam(r, "snap_id"), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, feed.Response{Snaps: views})
}
