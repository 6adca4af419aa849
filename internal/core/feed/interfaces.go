package feed

import (
	"context"

	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/visibility"
)

// Repository reads feed rows with visibility applied by the store.
// Every list method orders by sort time descending, then snap id descending.
type Repository interface {
	// Home returns snaps authored by members, merged with snaps shared by
	// members, one row per snap
	Home(ctx context.Context, members []string, scope visibility.Scope, page Page) ([]Row, error)

	ByAuthor(ctx context.Context, authorID string, scope visibility.Scope, page Page) ([]Row, error)
	AuthoredOrShared(ctx context.Context, userID string, scope visibility.Scope, page Page) ([]Row, error)
	SharedBy(ctx context.Context, userID string, scope visibility.Scope, page Page) ([]Row, error)
	FavedBy(ctx context.Context, userID string, scope visibility.Scope, page Page) ([]Row, error)

	// ByHashtag matches hashtag names case-insensitively by substring
	ByHashtag(ctx context.Context, hashtag string, scope visibility.Scope, page Page) ([]Row, error)

	// ByContent matches snap content case-insensitively by substring
	ByContent(ctx context.Context, text string, scope visibility.Scope, page Page) ([]Row, error)

	// Replies lists direct replies to parentID, oldest first
	Replies(ctx context.Context, parentID string, scope visibility.Scope, page Page) ([]Row, error)

	GetByID(ctx context.Context, id string) (*snaps.Snap, error)

	// ViewerState returns the viewer's like/share/fav flags keyed by snap id
	ViewerState(ctx context.Context, viewerID string, snapIDs []string) (map[string]ViewerState, error)

	// CountReplies returns reply counts keyed by snap id
	CountReplies(ctx context.Context, snapIDs []string) (map[string]int, error)
}

// Service composes annotated feeds for a viewer
type Service interface {
	Home(ctx context.Context, viewerID string, page Page) ([]SnapView, error)
	UserSnaps(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error)
	UserSnapsAndShares(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error)
	UserShares(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error)
	UserFavs(ctx context.Context, viewerID, userID string, page Page) ([]SnapView, error)
	FilterByHashtag(ctx context.Context, viewerID, hashtag string, page Page) ([]SnapView, error)
	FilterByContent(ctx context.Context, viewerID, text string, page Page) ([]SnapView, error)

	// GetSnap returns snaps.ErrSnapNotFound when the snap is absent or hidden from the viewer
	GetSnap(ctx context.Context, viewerID, snapID string) (*SnapView, error)
	Replies(ctx context.Context, viewerID, snapID string, page Page) ([]SnapView, error)

	// View annotates a single snap for viewerID without a visibility check
	View(ctx context.Context, viewerID string, snap *snaps.Snap) (*SnapView, error)
}
