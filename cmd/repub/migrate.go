package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/repub"
)

// Run executes the migrate command. Media files stored under the legacy
// per-article directory layout are renamed into the flat layout and every
// stored article is rewritten to reference the new names.
func (c *MigrateCmd) Run(deps *Dependencies) error {
	moved, err := deps.Media.MigrateLayout()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if len(moved) == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing to migrate")
		return nil
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	rewritten := 0
	for _, a := range articles {
		content := a.Content
		for oldName, newName := range moved {
			content = strings.ReplaceAll(content, repub.MediaRoot+"/"+oldName, repub.MediaRoot+"/"+newName)
		}
		if content == a.Content {
			continue
		}
		a.Content = content
		if err := deps.Articles.UpsertArticle(deps.Ctx, a); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
			return err
		}
		rewritten++
	}

	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Moved %d assets, rewrote %d articles\n", len(moved), rewritten)
	return nil
}
