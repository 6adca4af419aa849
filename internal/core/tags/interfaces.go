package tags

import (
	"context"
	"time"

	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/trending"
	"ContentDiscovery/internal/identity"
)

// UnknownMentionID is stored when a mentioned username cannot be resolved
const UnknownMentionID = "unknown"

// Mention is a resolved @username reference
type Mention struct {
	MentionedID string `json:"mentioned_id" db:"mentioned_id"`
	Username    string `json:"mentioned_username" db:"mentioned_username"`
}

// Repository persists hashtag and mention rows for a snap
type Repository interface {
	AddHashtags(ctx context.Context, snapID string, names []string, createdAt time.Time) error
	AddMentions(ctx context.Context, snapID string, mentions []Mention, createdAt time.Time) error
}

// UserResolver maps usernames to identity records
type UserResolver interface {
	ResolveUsername(ctx context.Context, username string) (*identity.User, error)
}

// TopicLister returns the currently trending topics
type TopicLister interface {
	ListTopics(ctx context.Context) ([]*trending.Topic, error)
}

// Notifier publishes mention and trending-snap events
type Notifier interface {
	SnapMentioned(ctx context.Context, fromID, toID string, snap *snaps.Snap) error
	TrendingSnap(ctx context.Context, topic *trending.Topic, snap *snaps.Snap) error
}
