package mock

import (
	"context"

	"github.com/fwojciec/doclink"
)

var _ doclink.CallLimiter = (*CallLimiter)(nil)

// CallLimiter is a mock implementation of doclink.CallLimiter.
type CallLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *CallLimiter) Wait(ctx context.Context) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx)
}
