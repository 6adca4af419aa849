package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(t *testing.T, requests int, window time.Duration) (*RateLimiter, *time.Time, func(addr string) *httptest.ResponseRecorder) {
	t.Helper()
	rl := NewRateLimiter(requests, window)
	t.Cleanup(rl.Close)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}
	return rl, &now, call
}

func TestRateLimiter(t *testing.T) {
	_, now, call := newLimitedHandler(t, 2, time.Minute)

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5678").Code)

	rec := call("10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.InDelta(t, 30, retry, 1)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "RateLimitExceeded", body["error"])

	// Other clients have their own bucket
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234").Code)

	// One token back after window/requests
	*now = now.Add(31 * time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1234").Code)

	*now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234").Code)
}

func TestRateLimiter_DeniedRequestsDoNotConsumeTokens(t *testing.T) {
	_, now, call := newLimitedHandler(t, 1, 10*time.Second)

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1").Code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1").Code)
	}

	*now = now.Add(11 * time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1").Code)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl, now, call := newLimitedHandler(t, 1, time.Minute)

	call("10.0.0.1:1")
	call("10.0.0.2:1")
	*now = now.Add(30 * time.Second)
	call("10.0.0.2:1")

	*now = now.Add(45 * time.Second)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Close()
	assert.NotPanics(t, rl.Close)
}
