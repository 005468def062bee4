package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReasoner_Analyze_ReturnsErrorWhenNoSections(t *testing.T) {
	t.Parallel()

	reasoner := gemini.NewReasoner(nil, "gemini-2.5-flash") // nil client ok for this test

	_, err := reasoner.Analyze(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, doclink.EINVALID, doclink.ErrorCode(err))
	assert.Contains(t, doclink.ErrorMessage(err), "at least one section")
}

func TestBuildConfig_UsesDeterministicDecoding(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.Temperature)
	assert.Zero(t, *config.Temperature)
}

func TestBuildConfig_RequestsJSON(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	assert.Equal(t, int32(4096), config.MaxOutputTokens)
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "documentation analyst")
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "text_references")
}

func TestBuildBatchPrompt_ContainsVerbatimBlocks(t *testing.T) {
	t.Parallel()

	sections := []*doclink.Section{{
		ID: "abc123",
		Blocks: []*doclink.ContentBlock{
			{Kind: doclink.BlockText, Content: "Call the client like this:"},
			{Kind: doclink.BlockCode, Content: "client.send(payload)", Language: "python"},
		},
	}}

	prompt := gemini.BuildBatchPrompt(sections)

	assert.Contains(t, prompt, "<id>abc123</id>")
	assert.Contains(t, prompt, "Call the client like this:")
	assert.Contains(t, prompt, "client.send(payload)")
	assert.Contains(t, prompt, `<code language="python">`)
}

func TestBuildBatchPrompt_PreservesBlockOrder(t *testing.T) {
	t.Parallel()

	sections := []*doclink.Section{{
		ID: "s1",
		Blocks: []*doclink.ContentBlock{
			{Kind: doclink.BlockText, Content: "first"},
			{Kind: doclink.BlockCode, Content: "second"},
			{Kind: doclink.BlockText, Content: "third"},
		},
	}}

	prompt := gemini.BuildBatchPrompt(sections)

	assert.Less(t, strings.Index(prompt, "first"), strings.Index(prompt, "second"))
	assert.Less(t, strings.Index(prompt, "second"), strings.Index(prompt, "third"))
}

func TestParseBatchResponse_DecodesCandidates(t *testing.T) {
	t.Parallel()

	raw := `{
		"sections": [{
			"id": "abc123",
			"concepts": [{
				"name": "client send call",
				"text_references": ["Call the client like this:"],
				"code_references": ["client.send(payload)"],
				"explanation": "The prose introduces the send call.",
				"confidence": 0.92,
				"type": "example"
			}]
		}]
	}`

	candidates, err := gemini.ParseBatchResponse(raw)

	require.NoError(t, err)
	require.Len(t, candidates["abc123"], 1)
	got := candidates["abc123"][0]
	assert.Equal(t, "client send call", got.Name)
	assert.Equal(t, []string{"Call the client like this:"}, got.TextRefs)
	assert.Equal(t, []string{"client.send(payload)"}, got.CodeRefs)
	assert.InDelta(t, 0.92, got.Confidence, 0.001)
	assert.Equal(t, "example", got.Type)
}

func TestParseBatchResponse_StripsCodeFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"sections\":[{\"id\":\"s1\",\"concepts\":[]}]}\n```"

	candidates, err := gemini.ParseBatchResponse(raw)

	require.NoError(t, err)
	assert.Contains(t, candidates, "s1")
}

func TestParseBatchResponse_ReturnsEMALFORMEDOnGarbage(t *testing.T) {
	t.Parallel()

	_, err := gemini.ParseBatchResponse("I could not find any concepts, sorry!")

	require.Error(t, err)
	assert.Equal(t, doclink.EMALFORMED, doclink.ErrorCode(err))
}

func TestParseBatchResponse_SkipsSectionsWithoutID(t *testing.T) {
	t.Parallel()

	raw := `{"sections":[{"id":"","concepts":[{"name":"x"}]},{"id":"s1","concepts":[]}]}`

	candidates, err := gemini.ParseBatchResponse(raw)

	require.NoError(t, err)
	assert.NotContains(t, candidates, "")
	assert.Contains(t, candidates, "s1")
}
