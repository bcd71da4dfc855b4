package main

import (
	"fmt"

	"github.com/fwojciec/repub"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	articles, err := deps.Articles.FindArticles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if err := deps.Site.Export(deps.Ctx, articles, c.Out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d articles to %s\n", len(articles), c.Out)
	return nil
}
