package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/metrics"
)

// FrequencyResponse wraps a snap frequency series
type FrequencyResponse struct {
	Frequency metrics.Frequency `json:"frequency"`
	Buckets   []metrics.Bucket  `json:"buckets"`
}

// Handler serves aggregate metrics
type Handler struct {
	service metrics.Service
	now     func() time.Time
}

// NewHandler creates a new metrics handler
func NewHandler(service metrics.Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// HandleSnapRates counts snaps created in the range
// GET /metrics/get_snap_rates?start=&end=
func (h *Handler) HandleSnapRates(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	rates, err := h.service.SnapRates(r.Context(), rng)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, rates)
}

// HandleUserMetrics summarizes one author
// GET /metrics/{user}/user_metrics?start=&end=
func (h *Handler) HandleUserMetrics(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	m, err := h.service.UserMetrics(r.Context(), chi.URLParam(r, "user"), rng)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, m)
}

// HandleSnapsFrequency returns snap counts bucketed by frequency
// GET /metrics/snaps_frequency?frequency=hour|day|week|month&start=&end=
func (h *Handler) HandleSnapsFrequency(w http.ResponseWriter, r *http.Request) {
	f, err := metrics.ParseFrequency(r.URL.Query().Get("frequency"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	buckets, err := h.service.SnapFrequency(r.Context(), f, rng)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	handlers.WriteJSON(w, FrequencyResponse{Frequency: f, Buckets: buckets})
}

func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (metrics.Range, bool) {
	q := r.URL.Query()
	rng, err := metrics.ParseRange(q.Get("start"), q.Get("end"), h.now())
	if err != nil {
		handleServiceError(w, err)
		return metrics.Range{}, false
	}
	return rng, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, metrics.ErrInvalidFrequency),
		errors.Is(err, metrics.ErrInvalidRange),
		errors.Is(err, metrics.ErrMissingUser):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		slog.Error("metrics service error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while computing metrics")
	}
}
