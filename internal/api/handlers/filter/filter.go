package filter

import (
	"errors"
	"log/slog"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/feed"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/identity"
)

// Handler serves hashtag and content searches
type Handler struct {
	service feed.Service
}

// NewHandler creates a new filter handler
func NewHandler(service feed.Service) *Handler {
	return &Handler{service: service}
}

// HandleHashtag lists visible snaps carrying a matching hashtag
// GET /filter/hashtag?user_id=&hashtag=
func (h *Handler) HandleHashtag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	views, err := h.service.FilterByHashtag(r.Context(), q.Get("user_id"), q.Get("hashtag"), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, feed.Response{Snaps: views})
}

// HandleContent lists visible snaps whose content matches
// GET /filter/content?user_id=&content=
func (h *Handler) HandleContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	views, err := h.service.FilterByContent(r.Context(), q.Get("user_id"), q.Get("content"), page)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, feed.Response{Snaps: views})
}

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

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case snaps.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, identity.ErrUpstream):
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "The identity service is unavailable")
	default:
		slog.Error("filter error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while filtering snaps")
	}
}
