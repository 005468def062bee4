package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/doclink"
	main "github.com/fwojciec/doclink/cmd/doclink"
	"github.com/fwojciec/doclink/goldmark"
	"github.com/fwojciec/doclink/mock"
	"github.com/fwojciec/doclink/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdEstimate_ReportsTokensAndCost(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "guide.md", "# Guide\n\nSome prose to count.\n")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Pipeline: &pipeline.Pipeline{
			Parsers: map[doclink.Format]doclink.Parser{
				doclink.FormatMarkdown: goldmark.NewParser(),
			},
		},
		TokenCounter: &mock.TokenCounter{
			CountTokensFn: func(_ context.Context, text string) (int, error) { return 42, nil },
		},
	}

	cmd := &main.EstimateCmd{Paths: []string{dir}, Model: "gemini-2.5-flash"}
	err := cmd.Run(deps)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Documents: 1")
	assert.Contains(t, stdout.String(), "Tokens:    ~42")
	assert.Contains(t, stdout.String(), "gemini-2.5-flash")
}

func TestCmdEstimate_ErrorsWhenNothingFound(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr}

	cmd := &main.EstimateCmd{Paths: []string{t.TempDir()}}
	err := cmd.Run(deps)

	require.Error(t, err)
	assert.Equal(t, doclink.ENOTFOUND, doclink.ErrorCode(err))
}
