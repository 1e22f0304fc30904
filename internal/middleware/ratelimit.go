package middleware

import (
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const rateLimitMessage = "Too many requests, please try again later."

// window is one client's fixed counting window.
type window struct {
	start time.Time
	count int
}

// RateLimiter allows each client IP at most limit requests per fixed
// window. The window starts with the client's first request and resets
// once it has fully elapsed.
type RateLimiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once

	// rejectLog throttles the over-limit warning.
	rejectLog rate.Sometimes
}

func NewRateLimiter(limit int, windowLen time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 1
	}
	if windowLen <= 0 {
		windowLen = time.Minute
	}
	rl := &RateLimiter{
		windows:   make(map[string]*window),
		limit:     limit,
		window:    windowLen,
		now:       time.Now,
		done:      make(chan struct{}),
		rejectLog: rate.Sometimes{Interval: time.Minute},
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// take counts one request for key. It reports whether the request fits in
// the current window, how many requests remain and when the window resets.
func (rl *RateLimiter) take(key string) (ok bool, remaining int, reset time.Time) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, found := rl.windows[key]
	if !found || !now.Before(w.start.Add(rl.window)) {
		w = &window{start: now}
		rl.windows[key] = w
	}
	reset = w.start.Add(rl.window)
	if w.count >= rl.limit {
		return false, 0, reset
	}
	w.count++
	return true, rl.limit - w.count, reset
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _, _ := rl.take(key)
	return ok
}

// Handler rejects over-limit clients with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ok, remaining, reset := rl.take(ip)
		w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			wait := reset.Sub(rl.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			rl.rejectLog.Do(func() {
				log.Printf("Warning: rate limit exceeded for %s", ip)
			})
			writeMessage(w, http.StatusTooManyRequests, rateLimitMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sweep drops windows that have fully elapsed.
func (rl *RateLimiter) sweep() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, w := range rl.windows {
		if !now.Before(w.start.Add(rl.window)) {
			delete(rl.windows, key)
		}
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
