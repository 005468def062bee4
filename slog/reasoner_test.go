package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/mock"
	docslog "github.com/fwojciec/doclink/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingReasoner_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("logs successful call with usage", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Reasoner{
			AnalyzeFn: func(context.Context, []*doclink.Section) (*doclink.BatchResult, error) {
				return &doclink.BatchResult{
					Usage: doclink.Usage{Model: "gemini-2.5-flash", PromptTokens: 100, CompletionTokens: 25},
				}, nil
			},
		}

		reasoner := docslog.NewLoggingReasoner(inner, logger)
		result, err := reasoner.Analyze(context.Background(), []*doclink.Section{{ID: "s1"}})

		require.NoError(t, err)
		assert.NotNil(t, result)
		output := buf.String()
		assert.Contains(t, output, "reasoning call")
		assert.Contains(t, output, "sections=1")
		assert.Contains(t, output, "model=gemini-2.5-flash")
		assert.Contains(t, output, "prompt_tokens=100")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs failed call", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Reasoner{
			AnalyzeFn: func(context.Context, []*doclink.Section) (*doclink.BatchResult, error) {
				return nil, doclink.Errorf(doclink.EUNAVAILABLE, "upstream overloaded")
			},
		}

		reasoner := docslog.NewLoggingReasoner(inner, logger)
		_, err := reasoner.Analyze(context.Background(), []*doclink.Section{{ID: "s1"}})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "reasoning call failed")
		assert.Contains(t, output, "upstream overloaded")
	})
}
