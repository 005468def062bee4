package link

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclink"
)

// AnalyzeFunc is the signature for a single reasoning attempt.
type AnalyzeFunc func(ctx context.Context) (*doclink.BatchResult, error)

// DefaultRetryDelays returns the backoff delays for reasoning retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// AnalyzeWithRetryDelays attempts a reasoning call with exponential backoff.
// Transient failures (EUNAVAILABLE) and undecodable responses (EMALFORMED)
// are retried; any other error aborts immediately. The delays slice is
// configurable so tests do not wait for real backoff.
func AnalyzeWithRetryDelays(ctx context.Context, analyze AnalyzeFunc, logger *slog.Logger, delays []time.Duration) (*doclink.BatchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := analyze(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if code := doclink.ErrorCode(err); code != doclink.EUNAVAILABLE && code != doclink.EMALFORMED {
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retrying reasoning call",
				"attempt", attempt+2, "error", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
