// Package visibility decides which snaps a viewer may see.
//
// A snap is visible to a viewer when it is PUBLIC and either its privacy is
// PUBLIC, its author is followed by the viewer, or the viewer is the author.
// The same rule is rendered as SQL by the postgres store from a Scope.
package visibility

import (
	"ContentDiscovery/internal/core/snaps"
)

// Scope is the viewer context a visibility decision is made in
type Scope struct {
	// ViewerID is empty for anonymous reads
	ViewerID string

	// Following holds the ids the viewer follows, as reported by the identity service
	Following []string

	// IncludeOwnPrivate lets the viewer see their own PRIVATE snaps.
	// Only set for the viewer's own profile listing.
	IncludeOwnPrivate bool
}

// NewScope builds a scope for viewer with the given follow list
func NewScope(viewerID string, following []string) Scope {
	return Scope{ViewerID: viewerID, Following: following}
}

// Follows reports whether authorID is in the viewer's following set
func (s Scope) Follows(authorID string) bool {
	for _, id := range s.Following {
		if id == authorID {
			return true
		}
	}
	return false
}

// IsViewer reports whether authorID is the viewer
func (s Scope) IsViewer(authorID string) bool {
	return s.ViewerID != "" && s.ViewerID == authorID
}

// CanView applies the visibility rule to a single snap
func CanView(snap *snaps.Snap, scope Scope) bool {
	if snap == nil {
		return false
	}

	if scope.IncludeOwnPrivate && scope.IsViewer(snap.AuthorID) {
		return true
	}

	if snap.Visibility != snaps.VisibilityPublic {
		return false
	}

	return snap.Privacy == snaps.PrivacyPublic ||
		scope.Follows(snap.AuthorID) ||
		scope.IsViewer(snap.AuthorID)
}

// Filter returns the snaps from list that the scope may see, preserving order
func Filter(list []*snaps.Snap, scope Scope) []*snaps.Snap {
	out := make([]*snaps.Snap, 0, len(list))
	for _, s := range list {
		if CanView(s, scope) {
			out = append(out, s)
		}
	}
	return out
}
