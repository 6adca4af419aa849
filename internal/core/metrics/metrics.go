// Package metrics reports snap activity over time ranges.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidFrequency is returned for an unknown bucket size
	ErrInvalidFrequency = errors.New("frequency must be one of hour, day, week, month")

	// ErrInvalidRange is returned for unparsable or inverted time ranges
	ErrInvalidRange = errors.New("invalid time range")

	ErrMissingUser = errors.New("user is required")
)

// Frequency is the bucket size of a time series, matching PostgreSQL date_trunc units
type Frequency string

const (
	FrequencyHour  Frequency = "hour"
	FrequencyDay   Frequency = "day"
	FrequencyWeek  Frequency = "week"
	FrequencyMonth Frequency = "month"
)

// ParseFrequency validates a frequency query value
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FrequencyHour, FrequencyDay, FrequencyWeek, FrequencyMonth:
		return f, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidFrequency, s)
}

// Range is a closed time interval
type Range struct {
	Start time.Time
	End   time.Time
}

// SnapRates counts snaps created inside a range
type SnapRates struct {
	Total   int `json:"total_snaps"`
	Private int `json:"private_snaps"`
	Public  int `json:"public_snaps"`
}

// UserMetrics summarizes a user's snaps and the interactions they received
type UserMetrics struct {
	UserID         string `json:"user_id"`
	TotalSnaps     int    `json:"total_snaps"`
	TotalLikes     int    `json:"total_likes"`
	TotalShares    int    `json:"total_shares"`
	SnapsInRange   int    `json:"snaps_in_range"`
	LikesInRange   int    `json:"likes_in_range"`
	SharesInRange  int    `json:"shares_in_range"`
	RepliesInRange int    `json:"replies_in_range"`
}

// Bucket is one point of a snap frequency series
type Bucket struct {
	Period time.Time `json:"period"`
	Count  int       `json:"count"`
}

// Repository runs the aggregate queries
type Repository interface {
	SnapRates(ctx context.Context, r Range) (*SnapRates, error)
	UserMetrics(ctx context.Context, userID string, r Range) (*UserMetrics, error)
	SnapFrequency(ctx context.Context, f Frequency, r Range) ([]Bucket, error)
}

// Service exposes metrics to the HTTP layer
type Service interface {
	SnapRates(ctx context.Context, r Range) (*SnapRates, error)
	UserMetrics(ctx context.Context, userID string, r Range) (*UserMetrics, error)
	SnapFrequency(ctx context.Context, f Frequency, r Range) ([]Bucket, error)
}

var rangeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseRange parses optional start and end values. A missing start means the
// Unix epoch and a missing end means now. Dates without a zone are UTC.
func ParseRange(start, end string, now time.Time) (Range, error) {
	r := Range{Start: time.Unix(0, 0).UTC(), End: now.UTC()}

	if s := strings.TrimSpace(start); s != "" {
		t, err := parseTime(s)
		if err != nil {
			return Range{}, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
		}
		r.Start = t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := parseTime(e)
		if err != nil {
			return Range{}, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
		}
		r.End = t
	}

	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("%w: end is before start", ErrInvalidRange)
	}
	return r, nil
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range rangeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
