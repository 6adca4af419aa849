// Package notifications delivers snap and trending events to the notification service.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Event names the notification endpoint
type Event string

const (
	EventMention      Event = "new_mention"
	EventLike         Event = "new_like"
	EventReply        Event = "new_reply"
	EventTrending     Event = "new_trending"
	EventTrendingSnap Event = "new_trending_snap"
)

// Sender delivers one notification synchronously
type Sender interface {
	Send(ctx context.Context, event Event, body any) error
}

// Client posts notifications as JSON to {baseURL}/api/notification/{event}
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a notification client with the given request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Send posts body for event. Any non-2xx response is an error.
func (c *Client) Send(ctx context.Context, event Event, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s notification: %w", event, err)
	}

	url := c.baseURL + "/api/notification/" + string(event)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s notification: %w", event, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification service returned %d for %s: %s", resp.StatusCode, event, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
