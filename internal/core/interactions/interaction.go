package interactions

import (
	"fmt"
)

// Kind identifies one of the per-user snap interactions
type Kind string

const (
	KindLike  Kind = "like"
	KindShare Kind = "share"
	KindFav   Kind = "fav"
)

// Valid reports whether k is a known interaction kind
func (k Kind) Valid() bool {
	switch k {
	case KindLike, KindShare, KindFav:
		return true
	}
	return false
}

// ParseKind converts a path segment into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown interaction kind %q", s)
	}
	return k, nil
}
