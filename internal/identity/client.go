package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxResponseSize bounds identity responses
const maxResponseSize = 1 << 20

// Config holds configuration for the identity client
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
}

type httpClient struct {
	http       *http.Client
	baseURL    string
	timeout    time.Duration
	maxRetries uint64
}

// NewClient creates an HTTP client for the identity service
func NewClient(cfg Config) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &httpClient{
		http:       cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
	}
}

func (c *httpClient) Following(ctx context.Context, userID string) ([]string, error) {
	return c.userIDs(ctx, "/api/interactions/"+url.PathEscape(userID)+"/following")
}

func (c *httpClient) Followers(ctx context.Context, userID string) ([]string, error) {
	return c.userIDs(ctx, "/api/interactions/"+url.PathEscape(userID)+"/followers")
}

// AreMutuals reads the plaintext true/false body of the mutuals endpoint
func (c *httpClient) AreMutuals(ctx context.Context, userID, otherID string) (bool, error) {
	path := fmt.Sprintf("/api/interactions/%s/mutuals_with/%s", url.PathEscape(userID), url.PathEscape(otherID))

	body, err := c.get(ctx, path)
	if err != nil {
		return false, err
	}

	answer := strings.Trim(strings.TrimSpace(string(body)), `"`)
	switch strings.ToLower(answer) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: unexpected mutuals response %q", ErrUpstream, answer)
}

// GetUser reads a profile. The endpoint answers without an id, so the
// requested id is filled in.
func (c *httpClient) GetUser(ctx context.Context, userID string) (*User, error) {
	user, err := c.user(ctx, "/api/auth/users/"+url.PathEscape(userID))
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		user.ID = userID
	}
	return user, nil
}

// ResolveUsername maps a username to an id. The response carries only the id.
func (c *httpClient) ResolveUsername(ctx context.Context, username string) (*User, error) {
	user, err := c.user(ctx, "/api/auth/user_by_username/"+url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrUserNotFound
	}
	if user.Username == "" {
		user.Username = username
	}
	return user, nil
}

func (c *httpClient) user(ctx context.Context, path string) (*User, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user: %v", ErrUpstream, err)
	}
	return &user, nil
}

func (c *httpClient) userIDs(ctx context.Context, path string) ([]string, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("%w: failed to decode user list: %v", ErrUpstream, err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID != "" {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// get performs a GET with retries on transport errors and 5xx responses.
// 404 is permanent and maps to ErrUserNotFound.
func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	var body []byte

	operation := func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				slog.Debug("failed to close identity response body", "error", closeErr)
			}
		}()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrUserNotFound)
		case resp.StatusCode >= 500:
			return &StatusError{Path: path, StatusCode: resp.StatusCode}
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(&StatusError{Path: path, StatusCode: resp.StatusCode})
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)

	notify := func(err error, next time.Duration) {
		slog.Warn("identity request failed, retrying",
			"path", path,
			"error", err,
			"next_attempt_in", next.Round(time.Millisecond).String(),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return body, nil
}
