package snaps

import "context"

// Repository is the transactional store for snap rows and their counters
type Repository interface {
	// Create inserts the snap; ID and CreatedAt are assigned by the caller
	Create(ctx context.Context, snap *Snap) error

	// GetByID returns ErrSnapNotFound for unknown or malformed ids
	GetByID(ctx context.Context, id string) (*Snap, error)

	// UpdateContent changes the content if authorID owns the snap
	UpdateContent(ctx context.Context, id, authorID, content string) (*Snap, error)

	// SetVisibility changes the visibility if authorID owns the snap
	SetVisibility(ctx context.Context, id, authorID string, visibility Visibility) (*Snap, error)

	// Delete removes the snap and everything it owns in one transaction.
	// Replies are detached (parent_id set to NULL), not deleted.
	// Deleting a nonexistent snap is a no-op.
	Delete(ctx context.Context, id string) error
}

// Service defines the write path for snaps
type Service interface {
	CreateSnap(ctx context.Context, req CreateSnapRequest) (*Snap, error)
	CreateReply(ctx context.Context, req CreateReplyRequest) (*Snap, error)
	UpdateSnap(ctx context.Context, req UpdateSnapRequest) (*Snap, error)
	SetVisibility(ctx context.Context, snapID, userID string, visibility Visibility) (*Snap, error)
	DeleteSnap(ctx context.Context, snapID, userID string) error
}

// TagRecorder persists hashtags and mentions found in a freshly written snap.
// It is best-effort: the returned error is only logged by the caller.
type TagRecorder interface {
	Record(ctx context.Context, snap *Snap) error
}

// Notifier publishes snap events to the notification gateway
type Notifier interface {
	SnapReplied(ctx context.Context, reply *Snap, parent *Snap) error
}
