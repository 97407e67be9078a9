package schedapi

import (
	"context"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER - Token Bucket
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter paces outgoing requests with a token bucket. It only ever
// delays a request; it never repeats or suppresses one, which keeps the
// client's single-shot failure model intact.
type RateLimiter struct {
	mu sync.Mutex

	maxTokens   float64       // bucket capacity
	refillRate  float64       // tokens added per second
	tokens      float64       // current token count
	lastRefill  time.Time     // last refill timestamp
	waitTimeout time.Duration // maximum time to wait for a token
}

// RateLimiterConfig contains configuration for the rate limiter.
type RateLimiterConfig struct {
	// RequestsPerSecond is the maximum sustained request rate
	RequestsPerSecond float64

	// BurstSize is the number of requests allowed in a burst
	BurstSize int

	// WaitTimeout is the maximum time to wait for a token
	WaitTimeout time.Duration
}

// DefaultRateLimiterConfig returns defaults sized for an interactive
// client: bursts cover a screenful of parallel fetches, the sustained
// rate stays polite.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerSecond: 5.0,
		BurstSize:         10,
		WaitTimeout:       15 * time.Second,
	}
}

// NewRateLimiter creates a RateLimiter with the given configuration.
// A zero RequestsPerSecond disables pacing entirely.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		maxTokens:   float64(config.BurstSize),
		refillRate:  config.RequestsPerSecond,
		tokens:      float64(config.BurstSize),
		lastRefill:  time.Now(),
		waitTimeout: config.WaitTimeout,
	}
}

// RateLimitError is returned when the wait for a token exceeds the
// configured timeout.
type RateLimitError struct {
	Waited time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return "rate limit wait exceeded " + e.Waited.String()
}

// Allow blocks until a request may proceed, the context is done, or the
// wait timeout elapses.
func (rl *RateLimiter) Allow(ctx context.Context) error {
	if rl.refillRate <= 0 {
		return nil
	}

	deadline := time.Now().Add(rl.waitTimeout)
	for {
		wait, ok := rl.tryAcquire()
		if ok {
			return nil
		}
		if time.Now().Add(wait).After(deadline) {
			return &RateLimitError{Waited: rl.waitTimeout}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// tryAcquire consumes a token if one is available, otherwise reports how
// long until the next one.
func (rl *RateLimiter) tryAcquire() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()

	if rl.tokens < 1.0 {
		needed := 1.0 - rl.tokens
		return time.Duration(needed / rl.refillRate * float64(time.Second)), false
	}

	rl.tokens--
	return 0, true
}

// refill adds tokens for the elapsed time. Must be called with the lock
// held.
func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now
}
