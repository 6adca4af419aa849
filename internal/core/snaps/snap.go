package snaps

import (
	"time"
)

// Visibility controls whether a snap is globally discoverable
type Visibility int

const (
	VisibilityPublic  Visibility = 1
	VisibilityPrivate Visibility = 2
)

// Valid reports whether v is a known visibility value
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Privacy controls whether non-followers may see an otherwise public snap
type Privacy int

const (
	PrivacyPublic    Privacy = 1
	PrivacyFollowers Privacy = 2
)

// Valid reports whether p is a known privacy value
func (p Privacy) Valid() bool {
	return p == PrivacyPublic || p == PrivacyFollowers
}

// MaxContentGraphemes is the maximum snap length in user-perceived characters
const MaxContentGraphemes = 280

// Snap is a short user post as stored in the database.
// Likes, Shares and Favs are denormalized counters owned by the snap row.
type Snap struct {
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	ParentID   *string    `json:"parent_id,omitempty" db:"parent_id"`
	ID         string     `json:"id" db:"id"`
	AuthorID   string     `json:"author" db:"author_id"`
	Content    string     `json:"content" db:"content"`
	Likes      int        `json:"likes" db:"likes"`
	Shares     int        `json:"shares" db:"shares"`
	Favs       int        `json:"favs" db:"favs"`
	Visibility Visibility `json:"visibility" db:"visibility"`
	Privacy    Privacy    `json:"privacy" db:"privacy"`
}

// IsReply reports whether the snap answers another snap
func (s *Snap) IsReply() bool {
	return s.ParentID != nil && *s.ParentID != ""
}

// CreateSnapRequest is the input for POST /feed/post
type CreateSnapRequest struct {
	UserID  string  `json:"user_id"`
	Content string  `json:"content"`
	Privacy Privacy `json:"privacy"`
}

// CreateReplyRequest is the input for POST /feed/reply
type CreateReplyRequest struct {
	UserID   string  `json:"user_id"`
	ParentID string  `json:"parent_id"`
	Content  string  `json:"content"`
	Privacy  Privacy `json:"privacy"`
}

// UpdateSnapRequest is the input for PUT /feed/update_snap.
// Only the content of a snap can change, and only by its author.
type UpdateSnapRequest struct {
	UserID  string `json:"user_id"`
	SnapID  string `json:"snap_id"`
	Content string `json:"content"`
}
