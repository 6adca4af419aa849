package health

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"ContentDiscovery/internal/api/handlers"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// Status is the health check body
type Status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// HandleHealth reports 200 when the database answers, 503 otherwise
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("health check failed", "error", err)
		handlers.WriteError(w, http.StatusServiceUnavailable, "Unhealthy", "database unavailable")
		return
	}
	handlers.WriteJSON(w, Status{Status: "ok", Database: "ok"})
}
