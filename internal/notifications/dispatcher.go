package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned when the dispatcher cannot accept more work
	ErrQueueFull = errors.New("notification queue is full")

	// ErrClosed is returned after Close has been called
	ErrClosed = errors.New("notification dispatcher is closed")
)

// BuildFunc produces the notification body at delivery time
type BuildFunc func(ctx context.Context) (any, error)

type job struct {
	build BuildFunc
	event Event
}

// Dispatcher delivers notifications on a fixed pool of workers so request
// handlers never wait on the notification service
type Dispatcher struct {
	sender  Sender
	queue   chan job
	timeout time.Duration
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewDispatcher starts workers goroutines reading from a queue of queueSize.
// timeout bounds building and sending a single notification.
func NewDispatcher(sender Sender, workers, queueSize int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan job, queueSize),
		timeout: timeout,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}
	return d
}

// Enqueue schedules a notification without blocking
func (d *Dispatcher) Enqueue(event Event, build BuildFunc) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- job{event: event, build: build}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting work and waits for queued notifications to drain,
// or for ctx to expire
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("[NOTIFY] dispatcher drained")
		return nil
	case <-ctx.Done():
		slog.Warn("[NOTIFY] dispatcher closed before queue drained", "pending", len(d.queue))
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("[NOTIFY] CRITICAL: notification worker panicked", "event", j.event, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	body, err := j.build(ctx)
	if err != nil {
		slog.Warn("[NOTIFY] failed to build notification", "event", j.event, "error", err)
		return
	}

	if err := d.sender.Send(ctx, j.event, body); err != nil {
		slog.Warn("[NOTIFY] failed to deliver notification", "event", j.event, "error", err)
		return
	}
	slog.Debug("[NOTIFY] notification delivered", "event", j.event)
}
