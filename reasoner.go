package doclink

import "context"

// ConceptCandidate is a single unvalidated concept proposed by the reasoning
// capability for one section. Candidates become ConceptLinks only after
// validation.
type ConceptCandidate struct {
	Name        string   `json:"name"`
	TextRefs    []string `json:"text_references"`
	CodeRefs    []string `json:"code_references"`
	Explanation string   `json:"explanation"`
	Confidence  float64  `json:"confidence"`
	Type        string   `json:"type"`
}

// Usage reports the token consumption of one reasoning call.
type Usage struct {
	Model            string `json:"model"`
	PromptTokens     int    `json:"promptTokens"`
	CompletionTokens int    `json:"completionTokens"`
}

// BatchResult is the parsed output of one reasoning call over a batch of
// sections, keyed by section ID. A section missing from Candidates means the
// model found no concepts for it.
type BatchResult struct {
	Candidates map[string][]*ConceptCandidate
	Usage      Usage
}

// Reasoner analyzes batches of sections and proposes concept links.
// Implementations embed each section's blocks verbatim in the request and
// use deterministic decoding. Transport failures return EUNAVAILABLE and
// undecodable responses EMALFORMED; both are retried by the caller.
type Reasoner interface {
	Analyze(ctx context.Context, sections []*Section) (*BatchResult, error)
}

// CallLimiter gates outbound reasoning calls to respect upstream rate
// limits.
type CallLimiter interface {
	// Wait blocks until the rate limit allows another call.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// TokenCounter counts tokens in text. Used to estimate prompt sizes and
// costs before any reasoning call is made.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
