package main

import (
	"fmt"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/fs"
	"github.com/fwojciec/doclink/pipeline"
)

// Run executes the link command.
func (c *LinkCmd) Run(deps *Dependencies) error {
	inputs, err := fs.CollectInputs(c.Paths)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(deps.Stderr, "No documents found.")
		return doclink.Errorf(doclink.ENOTFOUND, "no documents found under %v", c.Paths)
	}

	result, err := deps.Pipeline.Run(deps.Ctx, inputs, func(e pipeline.ProgressEvent) {
		switch e.Type {
		case pipeline.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s\n", e.Path)
		case pipeline.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %s\n", e.Path, doclink.ErrorMessage(e.Error))
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doclink.ErrorMessage(err))
		return err
	}

	if c.Output != "" {
		if err := fs.WriteDocuments(c.Output, result.Documents); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		if err := fs.EncodeDocuments(deps.Stdout, result.Documents); err != nil {
			return err
		}
	}

	fmt.Fprintf(deps.Stderr, "Run %s: %d parsed (%d partial, %d skipped, %d failed), %d sections\n",
		result.RunID, result.Parsed, result.Partial, result.Skipped, result.Failed, result.Sections)
	fmt.Fprintf(deps.Stderr, "Linked %d sections (%d from cache, %d degraded, %d candidates dropped)\n",
		result.Linked, result.Cached, result.Degraded, result.Dropped)
	fmt.Fprintf(deps.Stderr, "Usage: %d calls, %d tokens, $%.4f\n",
		result.Usage.Calls, result.Usage.TotalTokens, result.Usage.Cost)

	return nil
}
