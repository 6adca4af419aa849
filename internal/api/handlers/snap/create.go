package snap

import (
	"encoding/json"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/snaps"
)

// maxBodyBytes bounds request bodies; snap content itself is far smaller
const maxBodyBytes = 64 << 10

// CreateHandler handles snap and reply creation
type CreateHandler struct {
	service snaps.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service snaps.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandlePost creates a top-level snap
// POST /feed/post {"user_id", "content", "privacy"}
func (h *CreateHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	var req snaps.CreateSnapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.CreateSnap(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, snap)
}

// HandleReply creates a reply to an existing snap
// POST /feed/reply {"user_id", "parent_id", "content", "privacy"}
func (h *CreateHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	var req snaps.CreateReplyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	snap, err := h.service.CreateReply(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, snap)
}

// decodeBody writes a 400 and returns false when the body is not valid JSON
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return false
	}
	return true
}
