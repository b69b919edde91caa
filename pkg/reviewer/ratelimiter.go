package reviewer

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket keyed to requests per minute. The
// external review call is the only network-bound step per file, so this
// is where request pacing lives.
type RateLimiter struct {
	requestsPerMinute int
	burst             int
	tokens            int
	lastRefill        time.Time
	mu                sync.Mutex
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requestsPerMinute / 10
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		tokens:            burst,
		lastRefill:        time.Now(),
	}
}

// Wait blocks until it consumes a token or the context is cancelled.
// Returning always costs a token, so concurrent waiters cannot exceed
// the configured rate.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill()
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}

		tokensPerSecond := float64(r.requestsPerMinute) / 60.0
		waitDuration := time.Duration(float64(time.Second) / tokensPerSecond)
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitDuration):
		}
	}
}

// Try takes a token without blocking.
func (r *RateLimiter) Try() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill)

	tokensPerSecond := float64(r.requestsPerMinute) / 60.0
	tokensToAdd := int(elapsed.Seconds() * tokensPerSecond)
	if tokensToAdd > 0 {
		r.tokens += tokensToAdd
		if r.tokens > r.burst {
			r.tokens = r.burst
		}
		r.lastRefill = now
	}
}
