// Package ratelimit implements a token bucket politeness limiter for the
// page fetcher.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/mercalytics/catalog-crawler/internal/metrics"
)

// Limiter spaces out page fetches against the single crawl target. A zero or
// negative rate disables throttling.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a Limiter allowing rps requests per second with the given
// burst. Burst values below one are raised to one so the first fetch never
// blocks.
func New(rps float64, burst int) *Limiter {
	r := rate.Limit(rps)
	if rps <= 0 {
		r = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(r, burst)}
}

// Wait blocks until the next fetch is allowed or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("politeness wait: %w", err)
	}
	if delay := time.Since(start); delay > time.Millisecond {
		metrics.ObserveThrottleDelay(delay)
	}
	return nil
}
