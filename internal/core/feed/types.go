package feed

import (
	"time"

	"ContentDiscovery/internal/core/snaps"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page selects a window of a feed
type Page struct {
	Limit  int
	Offset int
}

// Row is one feed entry as read from the store.
// SharedBy lists the sharers that placed the snap in this feed, newest first;
// it is empty when the snap appears because of its author alone.
type Row struct {
	SortAt   time.Time
	Snap     *snaps.Snap
	SharedBy []string
}

// ViewerState is the viewer's own interactions with one snap
type ViewerState struct {
	Liked  bool
	Shared bool
	Faved  bool
}

// SnapView is a snap annotated for a specific viewer
type SnapView struct {
	CreatedAt       time.Time        `json:"created_at"`
	ParentID        *string          `json:"parent_id"`
	Likes           *int             `json:"likes,omitempty"`
	ID              string           `json:"id"`
	Author          string           `json:"author"`
	Content         string           `json:"content"`
	Username        string           `json:"username"`
	FullName        string           `json:"fullname"`
	ProfilePhotoURL string           `json:"profile_photo_url"`
	IsSharedBy      []string         `json:"is_shared_by"`
	Shares          int              `json:"shares"`
	Favs            int              `json:"favs"`
	NumReplies      int              `json:"num_replies"`
	Visibility      snaps.Visibility `json:"visibility"`
	Privacy         snaps.Privacy    `json:"privacy"`
	HasShared       bool             `json:"has_shared"`
	HasLiked        bool             `json:"has_liked"`
	HasFaved        bool             `json:"has_faved"`
}

// Response is the envelope every feed endpoint returns
type Response struct {
	Snaps []SnapView `json:"snaps"`
}
