package main

import (
	"fmt"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/ingest"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	article, err := deps.Pipeline.IngestURL(deps.Ctx, c.URL, ingest.Options{
		Title: c.Title,
		Tags:  c.Tags,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Ingested %s  %s\n", article.ID, article.Title)
	return nil
}
