// Package link provides semantic linking orchestration. It coordinates
// cache lookups, batched reasoning calls, candidate validation, and the
// merge of validated links back into the document tree.
package link

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/doclink"
	"golang.org/x/sync/errgroup"
)

// Linker orchestrates semantic linking over extracted sections.
type Linker struct {
	Reasoner            doclink.Reasoner
	Cache               doclink.LinkCache
	Ledger              *doclink.TokenLedger
	Limiter             doclink.CallLimiter
	Model               string
	SchemaVersion       string
	BatchSize           int
	Concurrency         int
	ConfidenceThreshold float64
	CacheTTL            time.Duration
	RetryDelays         []time.Duration
	Logger              *slog.Logger
}

// Result holds the outcome of a linking run.
type Result struct {
	// Linked is the number of sections that received at least one link.
	Linked int
	// Cached is the number of sections served from the cache.
	Cached int
	// Degraded is the number of sections whose reasoning call failed after
	// exhausting retries. Degraded sections carry no links and no error.
	Degraded int
	// Dropped is the number of candidate links rejected by validation.
	Dropped int
}

// batchResult holds the outcome of one reasoning call over a batch.
type batchResult struct {
	sections  []*doclink.Section
	validated map[string][]*doclink.ConceptLink
	dropped   int
	degraded  bool
}

// Link resolves concept links for the sections and attaches them to the
// sections' blocks. Sections whose reasoning fails are marked degraded, not
// errored: a partial result is always preferred over no result. An error is
// returned only for invalid configuration.
func (l *Linker) Link(ctx context.Context, sections []*doclink.Section) (*Result, error) {
	if l.Reasoner == nil {
		return nil, doclink.Errorf(doclink.EINVALID, "reasoner required")
	}
	if l.Model == "" {
		return nil, doclink.Errorf(doclink.EINVALID, "model required")
	}

	batchSize := l.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	ttl := l.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	result := &Result{}
	linked := make(map[string][]*doclink.ConceptLink)

	// Probe the cache before batching. A cached empty list is still a hit:
	// it records that the section was analyzed and yielded nothing.
	var misses []*doclink.Section
	keys := make(map[string]string, len(sections))
	for _, sec := range sections {
		key := doclink.CacheKey(sec, l.Model, l.SchemaVersion)
		keys[sec.ID] = key
		if l.Cache != nil {
			if links, ok := l.Cache.Get(ctx, key); ok {
				linked[sec.ID] = links
				result.Cached++
				continue
			}
		}
		misses = append(misses, sec)
	}

	batches := batchSections(misses, batchSize)
	resultCh := make(chan batchResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, batch := range batches {
			batch := batch
			g.Go(func() error {
				resultCh <- l.processBatch(gctx, batch, keys, ttl)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect and merge single-threaded after all batches join. Merge order
	// does not matter: each section's links are independent of the others.
	for br := range resultCh {
		result.Dropped += br.dropped
		if br.degraded {
			for _, sec := range br.sections {
				sec.Degraded = true
				result.Degraded++
			}
			continue
		}
		for _, sec := range br.sections {
			linked[sec.ID] = br.validated[sec.ID]
		}
	}

	var all []*doclink.ConceptLink
	for _, sec := range sections {
		links := linked[sec.ID]
		if len(links) == 0 {
			continue
		}
		all = append(all, links...)
		result.Linked++
	}
	attachLinks(sections, all)

	return result, nil
}

// processBatch runs one reasoning call with rate limiting and retries,
// validates the candidates, and caches the validated links per section.
func (l *Linker) processBatch(ctx context.Context, batch []*doclink.Section, keys map[string]string, ttl time.Duration) batchResult {
	br := batchResult{sections: batch}

	// A context already expired before dispatch degrades the batch without
	// burning a reasoning call.
	if ctx.Err() != nil {
		br.degraded = true
		return br
	}

	delays := l.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	// The limiter runs inside the attempt so retried calls respect the
	// upstream rate limit too, not just the first dispatch.
	analyze := func(ctx context.Context) (*doclink.BatchResult, error) {
		if l.Limiter != nil {
			if err := l.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		res, err := l.Reasoner.Analyze(ctx, batch)
		// Usage is recorded per attempt, whatever the outcome: tokens were
		// consumed even when the response turns out to be malformed.
		if res != nil && l.Ledger != nil {
			l.Ledger.Record(doclink.UsageRecord{
				Stage:            "linking",
				Model:            res.Usage.Model,
				PromptTokens:     res.Usage.PromptTokens,
				CompletionTokens: res.Usage.CompletionTokens,
			})
		}
		return res, err
	}

	res, err := AnalyzeWithRetryDelays(ctx, analyze, l.logger(), delays)
	if err != nil {
		l.logger().Warn("batch degraded after retries",
			"sections", len(batch), "error", err)
		br.degraded = true
		return br
	}

	br.validated = make(map[string][]*doclink.ConceptLink)
	for _, sec := range batch {
		// A section absent from the response means no concepts were found.
		// That outcome is cached like any other so the section is not
		// re-analyzed next run.
		validated, dropped := l.validate(sec, res.Candidates[sec.ID])
		br.validated[sec.ID] = validated
		br.dropped += dropped

		if l.Cache != nil {
			l.Cache.Put(ctx, keys[sec.ID], validated, ttl)
		}
	}

	return br
}

// validate filters a section's candidates down to well-formed, grounded
// links. A candidate survives only if its confidence meets the threshold,
// its type is known, and every quoted reference is a verbatim substring of
// the section's blocks.
func (l *Linker) validate(sec *doclink.Section, candidates []*doclink.ConceptCandidate) ([]*doclink.ConceptLink, int) {
	validated := []*doclink.ConceptLink{}
	var dropped int

	for _, c := range candidates {
		link, err := l.validateCandidate(sec, c)
		if err != nil {
			dropped++
			l.logger().Debug("candidate dropped",
				"section", sec.ID, "name", c.Name, "reason", doclink.ErrorMessage(err))
			continue
		}
		validated = append(validated, link)
	}

	return validated, dropped
}

func (l *Linker) validateCandidate(sec *doclink.Section, c *doclink.ConceptCandidate) (*doclink.ConceptLink, error) {
	if c.Confidence < l.ConfidenceThreshold {
		return nil, doclink.Errorf(doclink.EINVALID, "confidence %.2f below threshold %.2f", c.Confidence, l.ConfidenceThreshold)
	}

	typ, err := doclink.ParseLinkType(c.Type)
	if err != nil {
		return nil, err
	}

	for _, ref := range c.TextRefs {
		if !containsRef(sec.TextBlocks(), ref) {
			return nil, doclink.Errorf(doclink.EINVALID, "text reference %q not found in section", ref)
		}
	}
	for _, ref := range c.CodeRefs {
		if !containsRef(sec.CodeBlocks(), ref) {
			return nil, doclink.Errorf(doclink.EINVALID, "code reference %q not found in section", ref)
		}
	}

	link := &doclink.ConceptLink{
		Name:        c.Name,
		TextRefs:    c.TextRefs,
		CodeRefs:    c.CodeRefs,
		Explanation: c.Explanation,
		Confidence:  c.Confidence,
		Type:        typ,
	}
	if err := link.Validate(); err != nil {
		return nil, err
	}
	return link, nil
}

// attachLinks merges validated links into the document blocks. A link is
// attached to every block, in any section, whose content contains one of its
// quoted references, at most once per block. The same passage repeated across
// sections therefore carries the same link everywhere it appears.
func attachLinks(sections []*doclink.Section, links []*doclink.ConceptLink) {
	for _, link := range links {
		for _, sec := range sections {
			for _, b := range sec.Blocks {
				var refs []string
				switch b.Kind {
				case doclink.BlockText:
					refs = link.TextRefs
				case doclink.BlockCode:
					refs = link.CodeRefs
				}
				if blockContainsAny(b, refs) && !blockHasLink(b, link) {
					b.Links = append(b.Links, link)
				}
			}
		}
	}
}

func blockContainsAny(b *doclink.ContentBlock, refs []string) bool {
	for _, ref := range refs {
		if strings.Contains(b.Content, ref) {
			return true
		}
	}
	return false
}

func blockHasLink(b *doclink.ContentBlock, link *doclink.ConceptLink) bool {
	for _, existing := range b.Links {
		if existing == link {
			return true
		}
	}
	return false
}

func containsRef(blocks []*doclink.ContentBlock, ref string) bool {
	for _, b := range blocks {
		if strings.Contains(b.Content, ref) {
			return true
		}
	}
	return false
}

// batchSections splits sections into groups of at most size.
func batchSections(sections []*doclink.Section, size int) [][]*doclink.Section {
	var batches [][]*doclink.Section
	for len(sections) > 0 {
		n := size
		if n > len(sections) {
			n = len(sections)
		}
		batches = append(batches, sections[:n])
		sections = sections[n:]
	}
	return batches
}

func (l *Linker) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.New(slog.DiscardHandler)
}
