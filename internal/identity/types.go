package identity

import (
	"context"
	"strings"
)

// UnknownValue replaces profile fields the identity service could not provide
const UnknownValue = "Unknown"

// User is a user record as served by the identity service
type User struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePhotoID string `json:"profile_photo_id"`
}

// FullName joins first and last name with a single space
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Profile is the display data attached to snaps in feeds and notifications
type Profile struct {
	Username        string `json:"username"`
	FullName        string `json:"fullname"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// UnknownProfile is used when a user cannot be looked up
func UnknownProfile() Profile {
	return Profile{
		Username:        UnknownValue,
		FullName:        UnknownValue,
		ProfilePhotoURL: UnknownValue,
	}
}

// ProfileOf converts a user record into display data
func ProfileOf(u *User) Profile {
	if u == nil {
		return UnknownProfile()
	}
	return Profile{
		Username:        u.Username,
		FullName:        u.FullName(),
		ProfilePhotoURL: u.ProfilePhotoID,
	}
}

// Client is the read API of the identity service
type Client interface {
	// Following returns the ids of the users userID follows
	Following(ctx context.Context, userID string) ([]string, error)

	// Followers returns the ids of the users following userID
	Followers(ctx context.Context, userID string) ([]string, error)

	// AreMutuals reports whether the two users follow each other
	AreMutuals(ctx context.Context, userID, otherID string) (bool, error)

	// GetUser returns ErrUserNotFound for unknown ids
	GetUser(ctx context.Context, userID string) (*User, error)

	// ResolveUsername returns ErrUserNotFound for unknown usernames
	ResolveUsername(ctx context.Context, username string) (*User, error)
}

// LookupProfile returns the profile for userID, or UnknownProfile on any failure
func LookupProfile(ctx context.Context, client Client, userID string) Profile {
	user, err := client.GetUser(ctx, userID)
	if err != nil {
		return UnknownProfile()
	}
	return ProfileOf(user)
}
