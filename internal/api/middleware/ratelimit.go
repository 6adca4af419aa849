package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ContentDiscovery/internal/api/handlers"
)

// RateLimiter keeps one token bucket per client IP. Each bucket holds
// requests tokens and refills at requests per window. Run chi's RealIP
// middleware first when the service sits behind a proxy.
type RateLimiter struct {
	visitors map[string]*visitor
	stop     chan struct{}
	now      func() time.Time
	limit    rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
	once     sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window for each client.
// Call Close to stop the background sweep.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		stop:     make(chan struct{}),
		now:      time.Now,
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idle:     window,
	}
	go rl.sweep()
	return rl
}

// Middleware answers 429 once a client's bucket is empty
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, wait := rl.allow(clientKey(r)); !ok {
			w.Header().Set("Retry-After", retryAfter(wait))
			handlers.WriteError(w, http.StatusTooManyRequests, "RateLimitExceeded", "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close stops the sweep goroutine
func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

// allow takes a token for key. When none is left it reports how long
// until the next one.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	res := v.limiter.ReserveN(now, 1)
	wait := res.DelayFrom(now)
	res.CancelAt(now)
	return false, wait
}

// sweep drops visitors idle for a full window; their buckets are full again.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfter(wait time.Duration) string {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
