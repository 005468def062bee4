package mock

import (
	"context"

	"github.com/fwojciec/doclink"
)

var _ doclink.Reasoner = (*Reasoner)(nil)

// Reasoner is a mock implementation of doclink.Reasoner.
type Reasoner struct {
	AnalyzeFn func(ctx context.Context, sections []*doclink.Section) (*doclink.BatchResult, error)
}

func (r *Reasoner) Analyze(ctx context.Context, sections []*doclink.Section) (*doclink.BatchResult, error) {
	return r.AnalyzeFn(ctx, sections)
}
