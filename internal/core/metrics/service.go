package metrics

import (
	"context"
	"fmt"
	"strings"
)

type metricsService struct {
	repo Repository
}

// NewMetricsService creates a new metrics service
func NewMetricsService(repo Repository) Service {
	return &metricsService{repo: repo}
}

func (s *metricsService) SnapRates(ctx context.Context, r Range) (*SnapRates, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	rates, err := s.repo.SnapRates(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to count snaps: %w", err)
	}
	return rates, nil
}

func (s *metricsService) UserMetrics(ctx context.Context, userID string, r Range) (*UserMetrics, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingUser
	}
	if err := validateRange(r); err != nil {
		return nil, err
	}
	m, err := s.repo.UserMetrics(ctx, userID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load user metrics: %w", err)
	}
	return m, nil
}

// SnapFrequency returns snap counts per bucket; empty buckets are omitted
func (s *metricsService) SnapFrequency(ctx context.Context, f Frequency, r Range) ([]Bucket, error) {
	if _, err := ParseFrequency(string(f)); err != nil {
		return nil, err
	}
	if err := validateRange(r); err != nil {
		return nil, err
	}
	buckets, err := s.repo.SnapFrequency(ctx, f, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load snap frequency: %w", err)
	}
	if buckets == nil {
		buckets = []Bucket{}
	}
	return buckets, nil
}

func validateRange(r Range) error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: end is before start", ErrInvalidRange)
	}
	return nil
}
