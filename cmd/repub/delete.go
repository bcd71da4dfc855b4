package main

import (
	"fmt"

	"github.com/fwojciec/repub"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Pipeline.Delete(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %s\n", c.ID)
	return nil
}
