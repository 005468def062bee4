package main

import (
	"fmt"
)

// Run executes the purge command.
func (c *PurgeCmd) Run(deps *Dependencies) error {
	n := deps.Cache.PurgeExpired(deps.Ctx)
	fmt.Fprintf(deps.Stdout, "Purged %d expired entries.\n", n)
	return nil
}
