package interaction

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/core/interactions"
)

// Handler exposes like, share and fav toggles. Every action is idempotent
// and answers 200 with an empty body.
type Handler struct {
	service interactions.Service
}

// NewHandler creates a new interaction handler
func NewHandler(service interactions.Service) *Handler {
	return &Handler{service: service}
}

type action func(ctx context.Context, userID, snapID string) error

// POST /interactions/{user}/like/{snap}
func (h *Handler) HandleLike(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Like)
}

// DELETE /interactions/{user}/unlike/{snap}
func (h *Handler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Unlike)
}

// POST /interactions/{user}/share/{snap}
func (h *Handler) HandleShare(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Share)
}

// DELETE /interactions/{user}/unshare/{snap}
func (h *Handler) HandleUnshare(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Unshare)
}

// POST /interactions/{user}/fav/{snap}
func (h *Handler) HandleFav(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Fav)
}

// DELETE /interactions/{user}/unfav/{snap}
func (h *Handler) HandleUnfav(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.service.Unfav)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, do action) {
	if err := do(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "snap")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
