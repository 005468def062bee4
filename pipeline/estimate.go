package pipeline

import (
	"context"

	"github.com/fwojciec/doclink"
)

// EstimateResult holds a dry-run cost projection.
type EstimateResult struct {
	Documents int
	Sections  int
	// Tokens is the token count of the section contents that a linking run
	// would submit. Prompt scaffolding adds a small constant overhead on
	// top, so the real spend lands slightly above this.
	Tokens int
	// Cost is the projected USD spend, priced as input tokens for model.
	Cost float64
}

// Estimate parses and sections the inputs like Run, then projects the token
// spend of linking them without making a single reasoning call. Useful to
// size a run before committing to it.
func (p *Pipeline) Estimate(ctx context.Context, inputs []Input, counter doclink.TokenCounter, model string) (*EstimateResult, error) {
	if len(p.Parsers) == 0 {
		return nil, doclink.Errorf(doclink.EINVALID, "at least one parser required")
	}
	if counter == nil {
		return nil, doclink.Errorf(doclink.EINVALID, "token counter required")
	}

	result := &EstimateResult{}
	for _, in := range inputs {
		format := in.Format
		if format == "" {
			f, err := doclink.FormatForPath(in.Path)
			if err != nil {
				continue
			}
			format = f
		}
		parser, ok := p.Parsers[format]
		if !ok {
			continue
		}
		doc, err := parser.Parse(in.Data, in.Path)
		if doc == nil {
			continue
		}
		_ = err // partial trees are estimated like complete ones
		result.Documents++

		for _, sec := range doclink.ExtractSections(doc, p.MaxSectionChars) {
			result.Sections++
			for _, b := range sec.Blocks {
				n, err := counter.CountTokens(ctx, b.Content)
				if err != nil {
					return nil, err
				}
				result.Tokens += n
			}
		}
	}

	result.Cost = doclink.CostFor(model, result.Tokens, 0)
	return result, nil
}
