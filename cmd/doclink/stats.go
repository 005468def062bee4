package main

import (
	"fmt"

	"github.com/fwojciec/doclink"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	keys, err := deps.Store.Keys(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", doclink.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cache entries: %d\n", len(keys))
	return nil
}
