package trending

import (
	"context"
	"time"
)

// Repository is the store behind the trending engine
type Repository interface {
	// TopHashtags counts hashtag usages created after since, keeping names
	// used at least min times
	TopHashtags(ctx context.Context, since time.Time, min int) ([]HashtagCount, error)

	// CreateIfNotExists inserts a topic unless one with the same name exists.
	// It reports whether a row was inserted.
	CreateIfNotExists(ctx context.Context, name string, createdAt time.Time) (*Topic, bool, error)

	// DeleteOlderThan removes topics created before cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// List returns every current topic, newest first
	List(ctx context.Context) ([]*Topic, error)
}

// Notifier announces newly trending topics
type Notifier interface {
	TopicTrending(ctx context.Context, topic *Topic) error
}

// Service is the read side used by the HTTP layer and the tag recorder
type Service interface {
	ListTopics(ctx context.Context) ([]*Topic, error)
}
