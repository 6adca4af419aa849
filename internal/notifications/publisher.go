package notifications

import (
	"context"
	"fmt"
	"time"

	"ContentDiscovery/internal/core/feed"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/trending"
)

// SnapViewer renders a snap the way feeds show it
type SnapViewer interface {
	View(ctx context.Context, viewerID string, snap *snaps.Snap) (*feed.SnapView, error)
}

// SnapPayload is the serialized snap carried by notifications
type SnapPayload struct {
	ParentID        *string          `json:"parent_id"`
	ID              string           `json:"id"`
	Author          string           `json:"author"`
	Content         string           `json:"content"`
	CreatedAt       string           `json:"created_at"`
	Username        string           `json:"username"`
	FullName        string           `json:"fullname"`
	ProfilePhotoURL string           `json:"profile_photo_url"`
	Likes           int              `json:"likes"`
	Shares          int              `json:"shares"`
	Favs            int              `json:"favs"`
	NumReplies      int              `json:"num_replies"`
	Visibility      snaps.Visibility `json:"visibility"`
	Privacy         snaps.Privacy    `json:"privacy"`
	HasShared       bool             `json:"has_shared"`
	HasLiked        bool             `json:"has_liked"`
}

// TopicPayload is the serialized trending topic
type TopicPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// InteractionBody is the body of mention, like and reply notifications
type InteractionBody struct {
	Snap   *SnapPayload `json:"snap"`
	FromID string       `json:"from_id"`
	ToID   string       `json:"to_id"`
}

// TrendingBody is the body of trending notifications; Snap is only set for new_trending_snap
type TrendingBody struct {
	Snap  *SnapPayload `json:"snap,omitempty"`
	Topic TopicPayload `json:"topic"`
}

// Publisher turns domain events into queued notifications.
// It satisfies the notifier interfaces of the snaps, interactions, tags and trending packages.
type Publisher struct {
	dispatcher *Dispatcher
	viewer     SnapViewer
}

// NewPublisher creates a publisher. viewer may be nil, in which case snap
// payloads carry only the stored snap fields.
func NewPublisher(dispatcher *Dispatcher, viewer SnapViewer) *Publisher {
	return &Publisher{dispatcher: dispatcher, viewer: viewer}
}

func (p *Publisher) SnapReplied(_ context.Context, reply *snaps.Snap, parent *snaps.Snap) error {
	return p.interaction(EventReply, reply.AuthorID, parent.AuthorID, reply)
}

func (p *Publisher) SnapLiked(_ context.Context, likerID string, snap *snaps.Snap) error {
	return p.interaction(EventLike, likerID, snap.AuthorID, snap)
}

func (p *Publisher) SnapMentioned(_ context.Context, fromID, toID string, snap *snaps.Snap) error {
	return p.interaction(EventMention, fromID, toID, snap)
}

func (p *Publisher) TopicTrending(_ context.Context, topic *trending.Topic) error {
	body := TrendingBody{Topic: topicPayload(topic)}
	return p.dispatcher.Enqueue(EventTrending, func(context.Context) (any, error) {
		return body, nil
	})
}

func (p *Publisher) TrendingSnap(_ context.Context, topic *trending.Topic, snap *snaps.Snap) error {
	t := topicPayload(topic)
	s := *snap
	return p.dispatcher.Enqueue(EventTrendingSnap, func(ctx context.Context) (any, error) {
		payload, err := p.snapPayload(ctx, &s)
		if err != nil {
			return nil, err
		}
		return TrendingBody{Topic: t, Snap: payload}, nil
	})
}

func (p *Publisher) interaction(event Event, fromID, toID string, snap *snaps.Snap) error {
	s := *snap
	return p.dispatcher.Enqueue(event, func(ctx context.Context) (any, error) {
		payload, err := p.snapPayload(ctx, &s)
		if err != nil {
			return nil, err
		}
		return InteractionBody{FromID: fromID, ToID: toID, Snap: payload}, nil
	})
}

// snapPayload renders the snap from its author's point of view
func (p *Publisher) snapPayload(ctx context.Context, snap *snaps.Snap) (*SnapPayload, error) {
	payload := &SnapPayload{
		ID:         snap.ID,
		Author:     snap.AuthorID,
		Content:    snap.Content,
		ParentID:   snap.ParentID,
		CreatedAt:  snap.CreatedAt.UTC().Format(time.RFC3339Nano),
		Likes:      snap.Likes,
		Shares:     snap.Shares,
		Favs:       snap.Favs,
		Visibility: snap.Visibility,
		Privacy:    snap.Privacy,
	}
	if p.viewer == nil {
		return payload, nil
	}

	view, err := p.viewer.View(ctx, snap.AuthorID, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to render snap %s: %w", snap.ID, err)
	}
	payload.Username = view.Username
	payload.FullName = view.FullName
	payload.ProfilePhotoURL = view.ProfilePhotoURL
	payload.NumReplies = view.NumReplies
	payload.HasShared = view.HasShared
	payload.HasLiked = view.HasLiked
	return payload, nil
}

func topicPayload(t *trending.Topic) TopicPayload {
	return TopicPayload{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
