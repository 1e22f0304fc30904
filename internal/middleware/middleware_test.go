package middleware

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/forms", nil)
	r.RemoteAddr = ip + ":5555"
	return r
}

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(3, 15*time.Minute)
	defer rl.Stop()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }
	h := rl.Handler(okHandler)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("10.0.0.1"))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, strconv.Itoa(2-i), rec.Header().Get("RateLimit-Remaining"))
	}

	rl.now = func() time.Time { return start.Add(5 * time.Minute) }
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "600", rec.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rateLimitMessage, body["message"])

	// other clients have their own window
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.2"))
	assert.Equal(t, http.StatusOK, rec.Code)

	// still blocked just before the window ends
	rl.now = func() time.Time { return start.Add(15*time.Minute - time.Second) }
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// the full budget is back once the window has elapsed
	rl.now = func() time.Time { return start.Add(15 * time.Minute) }
	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("10.0.0.1"))
		assert.Equal(t, http.StatusOK, rec.Code, "request %d after reset", i+1)
	}
}

func TestRateLimiterNeverExceedsBudgetWithinWindow(t *testing.T) {
	const (
		limit  = 100
		window = 15 * time.Minute
	)
	rl := NewRateLimiter(limit, window)
	defer rl.Stop()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	allowed := 0
	for sec := 0; sec < int(window/time.Second); sec++ {
		now := start.Add(time.Duration(sec) * time.Second)
		rl.now = func() time.Time { return now }
		if rl.Allow("10.0.0.1") {
			allowed++
		}
	}
	assert.Equal(t, limit, allowed)

	// a steady client gets exactly one budget per window
	allowed = 0
	for sec := 0; sec < 3*int(window/time.Second); sec++ {
		now := start.Add(window + time.Duration(sec)*time.Second)
		rl.now = func() time.Time { return now }
		if rl.Allow("10.0.0.1") {
			allowed++
		}
	}
	assert.Equal(t, 3*limit, allowed)
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	rl.now = func() time.Time { return start.Add(30 * time.Second) }
	rl.sweep()
	rl.mu.Lock()
	assert.Len(t, rl.windows, 1)
	rl.mu.Unlock()

	rl.now = func() time.Time { return start.Add(time.Minute) }
	rl.sweep()
	rl.mu.Lock()
	assert.Empty(t, rl.windows)
	rl.mu.Unlock()
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "PANIC:")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/submissions", nil))
	assert.Contains(t, buf.String(), "POST /api/submissions 418")
	assert.NotContains(t, buf.String(), "Warning:")

	buf.Reset()
	h = Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Contains(t, buf.String(), "Warning: GET /api/health 502")
}
