package interactions

import (
	"context"

	"ContentDiscovery/internal/core/snaps"
)

// Repository stores interaction rows together with the snap counters they drive
type Repository interface {
	// Add inserts the (user, snap) row for kind and increments the matching
	// counter in the same transaction. It reports false when the row already
	// existed, in which case the counter is untouched.
	// Returns snaps.ErrSnapNotFound when the snap does not exist.
	Add(ctx context.Context, kind Kind, userID, snapID string) (bool, error)

	// Remove deletes the (user, snap) row for kind and decrements the counter,
	// never below zero. It reports false when there was nothing to delete.
	Remove(ctx context.Context, kind Kind, userID, snapID string) (bool, error)
}

// SnapReader looks up the snap an interaction targets
type SnapReader interface {
	GetByID(ctx context.Context, id string) (*snaps.Snap, error)
}

// Notifier publishes interaction events
type Notifier interface {
	SnapLiked(ctx context.Context, likerID string, snap *snaps.Snap) error
}

// Service defines the like/share/fav operations exposed over HTTP
type Service interface {
	Like(ctx context.Context, userID, snapID string) error
	Unlike(ctx context.Context, userID, snapID string) error
	Share(ctx context.Context, userID, snapID string) error
	Unshare(ctx context.Context, userID, snapID string) error
	Fav(ctx context.Context, userID, snapID string) error
	Unfav(ctx context.Context, userID, snapID string) error
}
