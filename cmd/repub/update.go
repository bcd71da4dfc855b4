package main

import (
	"fmt"

	"github.com/fwojciec/repub"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	upd := repub.ArticleUpdate{
		Title:   c.Title,
		Source:  c.Source,
		Summary: c.Summary,
		URL:     c.URL,
		Date:    c.Date,
	}
	if len(c.Tags) > 0 {
		upd.Tags = &c.Tags
	}

	article, err := deps.Articles.UpdateArticle(deps.Ctx, c.ID, upd)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated %s  %s\n", article.ID, article.Title)
	return nil
}
