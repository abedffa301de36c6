package gitea

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound calls to the upstream host
type RateLimiter interface {
	// Wait blocks until the request may proceed or ctx is done
	Wait(ctx context.Context) error

	// Limit reports the configured rate; rate.Inf means unlimited
	Limit() rate.Limit
}

// TokenBucketLimiter wraps a golang.org/x/time/rate limiter
type TokenBucketLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter builds a limiter for requestsPerSecond; zero or less disables limiting
func NewRateLimiter(requestsPerSecond float64, burst int) *TokenBucketLimiter {
	if requestsPerSecond <= 0 {
		return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &TokenBucketLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until the limiter allows the request
func (l *TokenBucketLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Limit returns the configured rate
func (l *TokenBucketLimiter) Limit() rate.Limit {
	return l.limiter.Limit()
}

// Unlimited reports whether the limiter never blocks
func (l *TokenBucketLimiter) Unlimited() bool {
	return l.limiter.Limit() == rate.Inf
}
