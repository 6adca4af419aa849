package snap

import (
	"errors"
	"log/slog"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/snaps"
)

// handleServiceError maps snap service errors to HTTP responses.
// Missing snaps answer 405, which existing clients rely on.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case snaps.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, snaps.ErrSnapNotFound):
		handlers.WriteError(w, http.StatusMethodNotAllowed, "SnapNotFound", "That snap does not exist")
	case errors.Is(err, snaps.ErrNotAuthorized):
		handlers.WriteError(w, http.StatusForbidden, "NotAuthorized", "Only the author can modify this snap")
	default:
		slog.Error("snap service error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
