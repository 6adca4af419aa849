package feed

import (
	"errors"
	"log/slog"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/identity"
)

// handleServiceError maps feed service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case snaps.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, snaps.ErrSnapNotFound):
		handlers.WriteError(w, http.StatusMethodNotAllowed, "SnapNotFound", "That snap does not exist")
	case errors.Is(err, identity.ErrUpstream):
		slog.Warn("identity service unavailable", "error", err)
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamError", "The identity service is unavailable")
	default:
		slog.Error("feed service error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while fetching the feed")
	}
}
