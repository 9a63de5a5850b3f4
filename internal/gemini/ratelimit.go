package gemini

import (
	"context"
	"sync"
	"time"
)

// RateLimiter caps model calls per minute so a burst of assessment requests
// does not trip the provider's quota.
type RateLimiter struct {
	mu              sync.Mutex
	maxPerMinute    int
	requestsThisMin int
	minuteResetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		maxPerMinute:    requestsPerMinute,
		minuteResetTime: time.Now().Add(time.Minute),
	}
}

// Wait blocks until a request slot is available or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()

		now := time.Now()
		if now.After(rl.minuteResetTime) {
			rl.requestsThisMin = 0
			rl.minuteResetTime = now.Add(time.Minute)
		}

		if rl.requestsThisMin < rl.maxPerMinute {
			rl.requestsThisMin++
			rl.mu.Unlock()
			return nil
		}

		wait := time.Until(rl.minuteResetTime)
		rl.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
