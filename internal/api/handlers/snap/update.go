package snap

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/snaps"
)

// UpdateHandler handles author-only snap mutations
type UpdateHandler struct {
	service snaps.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service snaps.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate replaces the content of a snap
// PUT /feed/update_snap {"user_id", "snap_id", "content"}
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req snaps.UpdateSnapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.UpdateSnap(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, snap)
}

// HandleSetPublic makes a snap discoverable again
// PUT /feed/set_public/{snap_id}?user_id=
func (h *UpdateHandler) HandleSetPublic(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, snaps.VisibilityPublic)
}

// HandleSetPrivate hides a snap from every feed
// PUT /feed/set_private/{snap_id}?user_id=
func (h *UpdateHandler) HandleSetPrivate(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, snaps.VisibilityPrivate)
}

func (h *UpdateHandler) setVisibility(w http.ResponseWriter, r *http.Request, v snaps.Visibility) {
	snapID := chi.URLParam(r, "snap_id")
	userID := r.URL.Query().Get("user_id")

	snap, err := h.service.SetVisibility(r.Context(), snapID, userID, v)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, snap)
}

// HandleDelete removes a snap; deleting an absent snap succeeds
// DELETE /feed/snap/{snap_id}?user_id=
func (h *UpdateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	snapID := chi.URLParam(r, "snap_id")
	userID := r.URL.Query().Get("user_id")

	if err := h.service.DeleteSnap(r.Context(), snapID, userID); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
