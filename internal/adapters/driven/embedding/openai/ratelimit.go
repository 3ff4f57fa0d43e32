package openai

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles embedding requests with a token bucket and holds
// all callers back after the provider reports a rate limit.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond sustained and
// burst at once. A non-positive rate disables throttling.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordRateLimit pauses every caller for retryAfter, as announced by the
// provider's Retry-After header. Non-positive durations are ignored.
func (r *RateLimiter) RecordRateLimit(retryAfter time.Duration) {
	if retryAfter <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if until := time.Now().Add(retryAfter); until.After(r.retryAt) {
		r.retryAt = until
	}
}
