// Package gemini implements the reasoning capability using Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/doclink"
	"google.golang.org/genai"
)

// PromptSchemaVersion identifies the prompt and response schema below.
// Bump it whenever the prompt wording or the response JSON shape changes,
// so that cached results produced under the old schema are discarded.
const PromptSchemaVersion = "v1"

const systemInstruction = `You are a documentation analyst. You are given numbered sections of technical documentation, each containing prose blocks and code blocks. Identify the concepts that connect prose to code: for each concept, quote the exact substrings of the prose that describe it and the exact substrings of the code that implement it. Quote verbatim, never paraphrase. Respond with JSON only, in the shape {"sections":[{"id":"<section id>","concepts":[{"name":"...","text_references":["..."],"code_references":["..."],"explanation":"...","confidence":0.0,"type":"implementation|example|reference"}]}]}. Omit sections with no concepts.`

// Ensure Reasoner implements doclink.Reasoner at compile time.
var _ doclink.Reasoner = (*Reasoner)(nil)

// Reasoner implements doclink.Reasoner using Google Gemini.
type Reasoner struct {
	client *genai.Client
	model  string
}

// NewReasoner creates a new Reasoner calling the given model.
func NewReasoner(client *genai.Client, model string) *Reasoner {
	return &Reasoner{client: client, model: model}
}

// Analyze submits a batch of sections in a single Gemini call and returns
// the candidate concepts per section along with token usage.
func (r *Reasoner) Analyze(ctx context.Context, sections []*doclink.Section) (*doclink.BatchResult, error) {
	if len(sections) == 0 {
		return nil, doclink.Errorf(doclink.EINVALID, "at least one section required")
	}

	prompt := BuildBatchPrompt(sections)
	config := BuildConfig()

	result, err := r.client.Models.GenerateContent(ctx, r.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, doclink.Errorf(doclink.EUNAVAILABLE, "gemini request failed: %v", err)
	}
	if result == nil {
		return nil, doclink.Errorf(doclink.EUNAVAILABLE, "gemini returned nil result")
	}

	usage := doclink.Usage{Model: r.model}
	if result.UsageMetadata != nil {
		usage.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}

	candidates, err := ParseBatchResponse(result.Text())
	if err != nil {
		// The call still consumed tokens, so the usage travels with the
		// error result for the caller to record.
		return &doclink.BatchResult{Usage: usage}, err
	}

	return &doclink.BatchResult{Candidates: candidates, Usage: usage}, nil
}

// BuildConfig returns the GenerateContentConfig for linking calls.
// Decoding is deterministic so that identical sections yield identical
// responses across runs.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		MaxOutputTokens:  4096,
		ResponseMIMEType: "application/json",
	}
}

// BuildBatchPrompt renders the sections into the user prompt. Block content
// is embedded verbatim so that the model can quote exact substrings.
func BuildBatchPrompt(sections []*doclink.Section) string {
	var sb strings.Builder
	sb.WriteString("<sections>\n")
	for _, sec := range sections {
		sb.WriteString("<section>\n")
		fmt.Fprintf(&sb, "<id>%s</id>\n", sec.ID)
		for _, b := range sec.Blocks {
			switch b.Kind {
			case doclink.BlockCode:
				fmt.Fprintf(&sb, "<code language=%q>\n%s\n</code>\n", b.Language, b.Content)
			default:
				fmt.Fprintf(&sb, "<text>\n%s\n</text>\n", b.Content)
			}
		}
		sb.WriteString("</section>\n")
	}
	sb.WriteString("</sections>")
	return sb.String()
}

// batchResponse mirrors the response schema named in the system instruction.
type batchResponse struct {
	Sections []struct {
		ID       string                      `json:"id"`
		Concepts []*doclink.ConceptCandidate `json:"concepts"`
	} `json:"sections"`
}

// ParseBatchResponse decodes the model's JSON response into candidates keyed
// by section ID. Returns EMALFORMED if the response cannot be decoded.
func ParseBatchResponse(raw string) (map[string][]*doclink.ConceptCandidate, error) {
	cleaned := stripFences(raw)

	var resp batchResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, doclink.Errorf(doclink.EMALFORMED, "cannot decode gemini response: %v", err)
	}

	candidates := make(map[string][]*doclink.ConceptCandidate)
	for _, sec := range resp.Sections {
		if sec.ID == "" {
			continue
		}
		candidates[sec.ID] = append(candidates[sec.ID], sec.Concepts...)
	}
	return candidates, nil
}

// stripFences removes a surrounding markdown code fence if present. Models
// sometimes wrap JSON output in one despite the response MIME type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
