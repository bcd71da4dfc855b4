package main

import (
	"fmt"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/bloom"
	"github.com/fwojciec/repub/goquery"
)

// sweepFPRate is the bloom filter false positive rate. A false positive
// keeps an orphan around; it never removes a referenced asset.
const sweepFPRate = 0.001

// Run executes the sweep command.
func (c *SweepCmd) Run(deps *Dependencies) error {
	articles, err := deps.Articles.FindArticles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	var referenced []string
	for _, a := range articles {
		names, err := goquery.LocalImageNames(a.Content)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
			return err
		}
		referenced = append(referenced, names...)
	}

	filter := bloom.NewFilter(uint(len(referenced))+1, sweepFPRate)
	for _, name := range referenced {
		filter.Add(name)
	}

	if c.DryRun {
		var orphans []string
		_, err := deps.Media.Sweep(func(name string) bool {
			if !filter.Test(name) {
				orphans = append(orphans, name)
			}
			return true
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
			return err
		}
		for _, name := range orphans {
			fmt.Fprintln(deps.Stdout, name)
		}
		fmt.Fprintf(deps.Stdout, "Would remove %d orphaned assets\n", len(orphans))
		return nil
	}

	removed, err := deps.Media.Sweep(filter.Test)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	for _, name := range removed {
		fmt.Fprintln(deps.Stdout, name)
	}
	fmt.Fprintf(deps.Stdout, "Removed %d orphaned assets\n", len(removed))
	return nil
}
