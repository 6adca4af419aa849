package trending

import (
	"context"
	"log/slog"
	"net/http"

	"ContentDiscovery/internal/api/handlers"
	"ContentDiscovery/internal/core/trending"
)

// TopicLister is satisfied by *trending.Engine
type TopicLister interface {
	ListTopics(ctx context.Context) ([]*trending.Topic, error)
}

// Response wraps the current trending topics
type Response struct {
	Topics []*trending.Topic `json:"topics"`
}

// GetAllHandler lists current trending topics
type GetAllHandler struct {
	topics TopicLister
}

func NewGetAllHandler(topics TopicLister) *GetAllHandler {
	return &GetAllHandler{topics: topics}
}

// HandleGetAll returns every trending topic, newest first
// GET /trending/get_all
func (h *GetAllHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	topics, err := h.topics.ListTopics(r.Context())
	if err != nil {
		slog.Error("failed to list trending topics", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An error occurred while listing topics")
		return
	}
	if topics == nil {
		topics = []*trending.Topic{}
	}
	handlers.WriteJSON(w, Response{Topics: topics})
}
