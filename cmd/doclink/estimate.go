package main

import (
	"fmt"

	"github.com/fwojciec/doclink"
	"github.com/fwojciec/doclink/fs"
)

// Run executes the estimate command.
func (c *EstimateCmd) Run(deps *Dependencies) error {
	inputs, err := fs.CollectInputs(c.Paths)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(deps.Stderr, "No documents found.")
		return doclink.Errorf(doclink.ENOTFOUND, "no documents found under %v", c.Paths)
	}

	result, err := deps.Pipeline.Estimate(deps.Ctx, inputs, deps.TokenCounter, c.Model)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doclink.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Documents: %d\n", result.Documents)
	fmt.Fprintf(deps.Stdout, "Sections:  %d\n", result.Sections)
	fmt.Fprintf(deps.Stdout, "Tokens:    ~%d\n", result.Tokens)
	fmt.Fprintf(deps.Stdout, "Cost:      ~$%.4f (%s)\n", result.Cost, c.Model)

	return nil
}
