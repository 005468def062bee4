// Package pipeline provides end-to-end run orchestration. It coordinates
// parsing, section extraction, and semantic linking across a set of input
// documents, and reports per-run outcomes and token usage.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/link"
	"github.com/google/uuid"
)

// Linker resolves concept links for extracted sections.
type Linker interface {
	Link(ctx context.Context, sections []*doclink.Section) (*link.Result, error)
}

// Pipeline orchestrates a document structuring and linking run.
type Pipeline struct {
	Parsers         map[doclink.Format]doclink.Parser
	Linker          Linker
	Ledger          *doclink.TokenLedger
	MaxSectionChars int
	Logger          *slog.Logger
}

// Input is one document submitted to a run. Format may be left empty to
// derive it from the path.
type Input struct {
	Path   string
	Data   []byte
	Format doclink.Format
}

// Result holds the outcome of a run.
type Result struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string

	// Documents are the parsed trees with links merged in, in input order.
	// Skipped and failed inputs are absent.
	Documents []*doclink.DocumentNode

	Parsed   int
	Partial  int
	Skipped  int
	Failed   int
	Sections int

	Linked   int
	Cached   int
	Degraded int
	Dropped  int

	// Usage is a ledger snapshot taken when the run finished.
	Usage doclink.UsageTotals
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type  ProgressType
	Path  string
	Total int
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressParsed
	ProgressSkipped
	ProgressFailed
	ProgressLinked
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run executes the pipeline over the inputs. Individual documents that
// cannot be handled are skipped or kept partial; the run fails outright only
// when misconfigured or when not a single document parses.
func (p *Pipeline) Run(ctx context.Context, inputs []Input, progress ProgressFunc) (*Result, error) {
	if len(p.Parsers) == 0 {
		return nil, doclink.Errorf(doclink.EINVALID, "at least one parser required")
	}
	if p.Linker == nil {
		return nil, doclink.Errorf(doclink.EINVALID, "linker required")
	}

	result := &Result{RunID: uuid.NewString()}
	logger := p.logger().With("run", result.RunID)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: len(inputs)})
	}

	var sections []*doclink.Section
	for _, in := range inputs {
		format := in.Format
		if format == "" {
			f, err := doclink.FormatForPath(in.Path)
			if err != nil {
				result.Skipped++
				logger.Info("document skipped", "path", in.Path, "reason", doclink.ErrorMessage(err))
				if progress != nil {
					progress(ProgressEvent{Type: ProgressSkipped, Path: in.Path, Error: err})
				}
				continue
			}
			format = f
		}

		parser, ok := p.Parsers[format]
		if !ok {
			result.Skipped++
			logger.Info("document skipped", "path", in.Path, "reason", "no parser for format", "format", format)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSkipped, Path: in.Path})
			}
			continue
		}

		doc, err := parser.Parse(in.Data, in.Path)
		if err != nil && doc == nil {
			result.Failed++
			logger.Warn("document failed to parse", "path", in.Path, "error", err)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Path: in.Path, Error: err})
			}
			continue
		}
		// A partial tree is still worth linking; the malformed remainder is
		// already logged by the parser error.
		if doc.Partial {
			result.Partial++
			logger.Warn("document parsed partially", "path", in.Path, "error", err)
		}

		result.Documents = append(result.Documents, doc)
		result.Parsed++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressParsed, Path: in.Path})
		}

		sections = append(sections, doclink.ExtractSections(doc, p.MaxSectionChars)...)
	}

	if result.Parsed == 0 && len(inputs) > 0 {
		return nil, doclink.Errorf(doclink.EINVALID, "no documents parsed out of %d inputs", len(inputs))
	}

	result.Sections = len(sections)

	if len(sections) > 0 {
		linkRes, err := p.Linker.Link(ctx, sections)
		if err != nil {
			return nil, err
		}
		result.Linked = linkRes.Linked
		result.Cached = linkRes.Cached
		result.Degraded = linkRes.Degraded
		result.Dropped = linkRes.Dropped
		if progress != nil {
			progress(ProgressEvent{Type: ProgressLinked, Total: result.Sections})
		}
	}

	if p.Ledger != nil {
		result.Usage = p.Ledger.Total()
	}

	logger.Info("run finished",
		"parsed", result.Parsed, "skipped", result.Skipped, "failed", result.Failed,
		"sections", result.Sections, "linked", result.Linked, "cached", result.Cached,
		"degraded", result.Degraded, "dropped", result.Dropped,
		"tokens", result.Usage.TotalTokens, "cost", result.Usage.Cost)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Total: len(inputs)})
	}

	return result, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
