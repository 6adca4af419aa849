package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

// ProfileCache stores identity user records by id
type ProfileCache interface {
	// Get returns ErrCacheMiss when userID is not cached
	Get(ctx context.Context, userID string) (*User, error)
	Set(ctx context.Context, user *User) error
}

// lruCache is a process-local cache with per-entry expiry
type lruCache struct {
	lru *expirable.LRU[string, User]
}

// NewLRUCache creates an in-process cache holding up to size users for ttl
func NewLRUCache(size int, ttl time.Duration) ProfileCache {
	return &lruCache{lru: expirable.NewLRU[string, User](size, nil, ttl)}
}

func (c *lruCache) Get(_ context.Context, userID string) (*User, error) {
	user, ok := c.lru.Get(userID)
	if !ok {
		return nil, ErrCacheMiss
	}
	return &user, nil
}

func (c *lruCache) Set(_ context.Context, user *User) error {
	c.lru.Add(user.ID, *user)
	return nil
}

// redisCache shares cached profiles between service instances
type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to redisURL and verifies the connection
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (ProfileCache, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisCache(client, ttl), client, nil
}

func newRedisCache(client *redis.Client, ttl time.Duration) *redisCache {
	return &redisCache{client: client, prefix: "content_discovery:profile", ttl: ttl}
}

func (c *redisCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, userID)
}

func (c *redisCache) Get(ctx context.Context, userID string) (*User, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}
	return &user, nil
}

func (c *redisCache) Set(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := c.client.Set(ctx, c.key(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}
