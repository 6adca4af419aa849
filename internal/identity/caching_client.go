package identity

import (
	"context"
	"errors"
	"log/slog"
)

// cachingClient wraps a base client with a profile cache.
// Follow-graph reads are never cached; they must reflect the latest follows.
type cachingClient struct {
	Client
	cache ProfileCache
}

// NewCachingClient caches GetUser results in cache
func NewCachingClient(base Client, cache ProfileCache) Client {
	return &cachingClient{Client: base, cache: cache}
}

// GetUser checks the cache first, then falls back to the base client
func (c *cachingClient) GetUser(ctx context.Context, userID string) (*User, error) {
	cached, err := c.cache.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		slog.Warn("profile cache read failed", "user_id", userID, "error", err)
	}

	user, err := c.Client.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.store(ctx, user)
	return user, nil
}

// ResolveUsername is not cached. Usernames can be reassigned, and the lookup
// returns only an id, which must not shadow a full profile.
func (c *cachingClient) ResolveUsername(ctx context.Context, username string) (*User, error) {
	return c.Client.ResolveUsername(ctx, username)
}

func (c *cachingClient) store(ctx context.Context, user *User) {
	if cacheErr := c.cache.Set(ctx, user); cacheErr != nil {
		slog.Warn("failed to cache profile", "user_id", user.ID, "error", cacheErr)
	}
}
