package main

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fwojciec/repub"
	"github.com/fwojciec/repub/fs"
	"github.com/fwojciec/repub/ingest"
	"github.com/fwojciec/repub/metrics"
	"github.com/fwojciec/repub/site"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Articles repub.ArticleService
	Pipeline *ingest.Pipeline
	Site     *site.Builder
	Media    *fs.MediaStore

	// Metrics and Registry are wired for the serve command only.
	Metrics  *metrics.Collector
	Registry prometheus.Gatherer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" help:"Run the API server and serve the generated site"`
	Ingest  IngestCmd  `cmd:"" help:"Ingest an article from a platform URL"`
	Import  ImportCmd  `cmd:"" help:"Import a PDF document as a commentary article"`
	Build   BuildCmd   `cmd:"" help:"Regenerate the static site from the record store"`
	Export  ExportCmd  `cmd:"" help:"Export all articles as Markdown documents"`
	List    ListCmd    `cmd:"" help:"List all stored articles"`
	Update  UpdateCmd  `cmd:"" help:"Update an article's metadata"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an article"`
	Sweep   SweepCmd   `cmd:"" help:"Remove media assets no stored article references"`
	Migrate MigrateCmd `cmd:"" help:"Migrate a legacy per-article media layout to the canonical one"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string `default:":8080" env:"REPUB_ADDR" help:"Listen address"`
	Extractor string `default:"wechat" enum:"wechat,readability,trafilatura" help:"Content extractor implementation"`
	Browser   bool   `short:"b" help:"Start a headless browser for challenge pages"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	URL       string   `arg:"" help:"Platform article URL"`
	Title     string   `short:"t" help:"Override the extracted title"`
	Tags      []string `short:"T" help:"Override the extracted tags (repeatable)"`
	Browser   bool     `short:"b" help:"Use a headless browser for challenge pages"`
	Extractor string   `default:"wechat" enum:"wechat,readability,trafilatura" help:"Content extractor implementation"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Path  string   `arg:"" type:"existingfile" help:"PDF file to import"`
	Title string   `short:"t" help:"Override the derived title"`
	Tags  []string `short:"T" help:"Override the default tags (repeatable)"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Out string `default:"markdown" help:"Output directory"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// UpdateCmd is the "update" subcommand. Only flags given on the command
// line are applied; everything else stays as stored.
type UpdateCmd struct {
	ID      string   `arg:"" help:"Article ID"`
	Title   *string  `help:"New title"`
	Source  *string  `help:"New source label"`
	Summary *string  `help:"New summary"`
	URL     *string  `help:"New original URL"`
	Date    *string  `help:"New date (YYYY-MM-DD)"`
	Tags    []string `short:"T" help:"New tags (repeatable, replaces all)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Article ID"`
}

// SweepCmd is the "sweep" subcommand.
type SweepCmd struct {
	DryRun bool `help:"Report orphans without removing them"`
}

// MigrateCmd is the "migrate" subcommand.
type MigrateCmd struct{}
