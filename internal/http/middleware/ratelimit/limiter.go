package ratelimit

import "time"

// Limiter decides whether a request under key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// Clock is the time source of TokenBucketLimiter.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }

// NopLimiter lets every request through. Used when rate limiting is off.
type NopLimiter struct{}

// Allow always returns true.
func (NopLimiter) Allow(string) bool { return true }

var (
	_ Limiter = NopLimiter{}
	_ Limiter = (*TokenBucketLimiter)(nil)
	_ Clock   = RealClock{}
)
