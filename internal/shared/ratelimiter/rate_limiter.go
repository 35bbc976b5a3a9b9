// Package ratelimiter limits how often an operation may run within a fixed window.
package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// Limiter reports whether an operation may run now.
type Limiter interface {
	Allow() bool
}

// RateLimiter is a fixed-window counter safe for concurrent use.
// It never blocks: callers that exceed the limit are told to skip.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // operations allowed per window
	interval  time.Duration // window length
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter returns a RateLimiter allowing limit operations per interval.
// A non-positive limit disables the operation entirely.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Allow consumes one slot of the current window and reports whether the
// operation may proceed.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	if rl.count >= rl.limit {
		slog.Debug("rate limit reached", "limit", rl.limit, "retry_in", rl.interval-now.Sub(rl.lastReset))
		return false
	}
	rl.count++
	return true
}
