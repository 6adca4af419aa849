package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Config tunes promotion and eviction
type Config struct {
	// Window is how far back hashtag usage is counted
	Window time.Duration
	// Threshold is the minimum usage count inside Window to trend
	Threshold int
	// Retention is how long a topic stays trending
	Retention time.Duration

	PromotionInterval time.Duration
	EvictionInterval  time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		Window:            7 * 24 * time.Hour,
		Threshold:         4,
		Retention:         3 * time.Hour,
		PromotionInterval: 5 * time.Second,
		EvictionInterval:  5 * time.Minute,
	}
}

// CycleResult summarizes one promotion cycle
type CycleResult struct {
	// Notified is the topic announced this cycle, if any
	Notified *Topic
	// Created lists the topics inserted this cycle
	Created []*Topic
	// Candidates is the number of hashtags over the threshold
	Candidates int
}

// Engine promotes frequent hashtags to trending topics and evicts stale ones
type Engine struct {
	repo      Repository
	notifier  Notifier
	now       func() time.Time
	scheduler gocron.Scheduler
	cfg       Config
	mu        sync.Mutex
}

// NewEngine creates a trending engine. notifier may be nil.
func NewEngine(repo Repository, notifier Notifier, cfg Config) *Engine {
	defaults := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = defaults.Window
	}
	if cfg.Threshold < 1 {
		cfg.Threshold = defaults.Threshold
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaults.Retention
	}
	if cfg.PromotionInterval <= 0 {
		cfg.PromotionInterval = defaults.PromotionInterval
	}
	if cfg.EvictionInterval <= 0 {
		cfg.EvictionInterval = defaults.EvictionInterval
	}

	return &Engine{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ListTopics returns the current trending topics
func (e *Engine) ListTopics(ctx context.Context) ([]*Topic, error) {
	topics, err := e.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trending topics: %w", err)
	}
	return topics, nil
}

// RunPromotionCycle promotes every hashtag over the threshold that is not yet
// trending. At most one notification is sent per cycle, for the new topic with
// the highest count (ties go to the smallest name).
func (e *Engine) RunPromotionCycle(ctx context.Context) (*CycleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now().UTC()
	counts, err := e.repo.TopHashtags(ctx, now.Add(-e.cfg.Window), e.cfg.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to count hashtags: %w", err)
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})

	result := &CycleResult{Candidates: len(counts)}
	for _, c := range counts {
		topic, created, err := e.repo.CreateIfNotExists(ctx, c.Name, now)
		if err != nil {
			slog.Error("[TRENDING] failed to promote hashtag",
				"name", c.Name,
				"error", err,
			)
			continue
		}
		if !created {
			continue
		}
		result.Created = append(result.Created, topic)
		if result.Notified == nil {
			result.Notified = topic
		}
	}

	if result.Notified != nil {
		slog.Info("[TRENDING] new trending topics",
			"created", len(result.Created),
			"announced", result.Notified.Name,
		)
		if e.notifier != nil {
			if err := e.notifier.TopicTrending(ctx, result.Notified); err != nil {
				slog.Warn("[TRENDING] failed to send trending notification",
					"name", result.Notified.Name,
					"error", err,
				)
			}
		}
	}

	return result, nil
}

// RunEvictionCycle removes topics older than the retention window
func (e *Engine) RunEvictionCycle(ctx context.Context) (int64, error) {
	cutoff := e.now().UTC().Add(-e.cfg.Retention)
	removed, err := e.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to evict trending topics: %w", err)
	}
	if removed > 0 {
		slog.Info("[TRENDING] evicted stale topics", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// Start schedules the promotion and eviction jobs. Each job runs in singleton
// mode so a slow cycle is never overlapped by the next tick.
// The jobs stop when ctx is cancelled or Shutdown is called.
func (e *Engine) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(e.cfg.PromotionInterval),
		gocron.NewTask(func() {
			e.runJob(ctx, "promotion", func(jobCtx context.Context) error {
				_, err := e.RunPromotionCycle(jobCtx)
				return err
			})
		}),
		gocron.WithName("trending-promotion"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule promotion job: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(e.cfg.EvictionInterval),
		gocron.NewTask(func() {
			e.runJob(ctx, "eviction", func(jobCtx context.Context) error {
				_, err := e.RunEvictionCycle(jobCtx)
				return err
			})
		}),
		gocron.WithName("trending-eviction"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule eviction job: %w", err)
	}

	e.mu.Lock()
	e.scheduler = scheduler
	e.mu.Unlock()
	scheduler.Start()

	slog.Info("[TRENDING] engine started",
		"window", e.cfg.Window,
		"threshold", e.cfg.Threshold,
		"retention", e.cfg.Retention,
		"promotion_interval", e.cfg.PromotionInterval,
		"eviction_interval", e.cfg.EvictionInterval,
	)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(); err != nil {
			slog.Error("[TRENDING] failed to shut down scheduler", "error", err)
		}
	}()

	return nil
}

// Shutdown stops the scheduled jobs and waits for running cycles to finish
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	scheduler := e.scheduler
	e.scheduler = nil
	e.mu.Unlock()

	if scheduler == nil {
		return nil
	}
	slog.Info("[TRENDING] engine stopping")
	return scheduler.Shutdown()
}

func (e *Engine) runJob(ctx context.Context, name string, run func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[TRENDING] CRITICAL: job panicked", "job", name, "panic", r)
		}
	}()

	if ctx.Err() != nil {
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := run(jobCtx); err != nil {
		slog.Error("[TRENDING] job failed", "job", name, "error", err)
	}
}
