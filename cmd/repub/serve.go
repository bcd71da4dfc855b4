package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fwojciec/repub"
	repubhttp "github.com/fwojciec/repub/http"
)

// Run executes the serve command. The site is rebuilt before the listener
// opens so the file server never exposes a stale or missing index.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := rebuildSite(deps); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	server := repubhttp.NewServer()
	server.Addr = c.Addr
	server.Articles = deps.Articles
	server.Ingester = deps.Pipeline
	server.Site = deps.Site
	server.SiteDir = deps.Site.Dir()
	server.UploadDir = deps.Pipeline.UploadDir
	server.Metrics = deps.Metrics
	server.Registry = deps.Registry
	server.Logger = deps.Pipeline.Logger

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repub.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", c.Addr)

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(deps.Stdout, "Shutting down")
	return server.Close()
}
