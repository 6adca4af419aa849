package interaction

import (
	"errors"
	"log/slog"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/snaps"
)

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case snaps.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, snaps.ErrSnapNotFound):
		handlers.WriteError(w, http.StatusMethodNotAllowed, "SnapNotFound", "That snap does not exist")
	default:
		slog.Error("interaction service error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
