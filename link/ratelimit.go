package link

import (
	"context"

	"github.com/fwojciec/doclink"
	"golang.org/x/time/rate"
)

var _ doclink.CallLimiter = (*Limiter)(nil)

// Limiter gates outbound reasoning calls using a token bucket with a burst
// of 1, so that calls are spaced evenly regardless of worker concurrency.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a new Limiter allowing rps calls per second.
func NewLimiter(rps float64) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// Wait blocks until the rate limit allows another call.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
