package main

import (
	"fmt"

	"github.com/fwojciec/repub"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Site written to %s\n", deps.Site.Dir())
	return nil
}

// rebuildSite regenerates the whole site from the record store. Mutating
// commands call it so the published pages never lag the store.
func rebuildSite(deps *Dependencies) error {
	articles, err := deps.Articles.FindArticles(deps.Ctx)
	if err != nil {
		return err
	}
	return deps.Site.Build(deps.Ctx, articles)
}
