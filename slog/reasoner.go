// Package slog provides logging decorators for doclink interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/doclink"
)

// Ensure LoggingReasoner implements doclink.Reasoner.
var _ doclink.Reasoner = (*LoggingReasoner)(nil)

// LoggingReasoner wraps a Reasoner with structured logging for every call.
type LoggingReasoner struct {
	next   doclink.Reasoner
	logger *slog.Logger
}

// NewLoggingReasoner creates a new LoggingReasoner.
func NewLoggingReasoner(next doclink.Reasoner, logger *slog.Logger) *LoggingReasoner {
	return &LoggingReasoner{next: next, logger: logger}
}

// Analyze delegates to the wrapped reasoner and logs the call's outcome,
// duration, and token usage.
func (r *LoggingReasoner) Analyze(ctx context.Context, sections []*doclink.Section) (*doclink.BatchResult, error) {
	begin := time.Now()
	result, err := r.next.Analyze(ctx, sections)

	if err != nil {
		r.logger.Warn("reasoning call failed",
			"sections", len(sections),
			"duration", time.Since(begin),
			"error", err,
		)
		return result, err
	}

	r.logger.Info("reasoning call",
		"sections", len(sections),
		"duration", time.Since(begin),
		"model", result.Usage.Model,
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens,
	)
	return result, nil
}
