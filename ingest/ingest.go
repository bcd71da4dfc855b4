// Package ingest implements the ingestion pipeline: fetch or read a source,
// extract and normalize its content, localize embedded media and upsert the
// result into the article store. Both adapters (web article and PDF
// document) share the same downstream pipeline.
package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/repub"
)

// DefaultFetchTimeout bounds the source page fetch.
const DefaultFetchTimeout = 30 * time.Second

// DefaultCommentaryTimeout bounds the commentary generation call. On
// expiry the deterministic templated fallback is substituted.
const DefaultCommentaryTimeout = 60 * time.Second

// Options carries caller overrides for a single ingestion.
type Options struct {
	// Title replaces the extracted or derived title when non-empty.
	Title string
	// Tags replaces the extracted or default tag set when non-empty.
	Tags []string
}

// Pipeline wires the ingestion dependencies. Fetcher and Extractor serve
// the web adapter; Documents and Commentator serve the PDF adapter.
// Browser is an optional JavaScript-capable fallback fetcher tried when
// the plain fetch fails or lands on an anti-bot challenge page.
type Pipeline struct {
	Articles    repub.ArticleService
	Fetcher     repub.Fetcher
	Browser     repub.Fetcher
	Extractor   repub.Extractor
	Localizer   repub.Localizer
	Documents   repub.DocumentReader
	Commentator repub.Commentator

	// SiteDir and UploadDir locate the generated site and uploaded
	// documents for best-effort cleanup on delete.
	SiteDir   string
	UploadDir string

	FetchTimeout      time.Duration
	CommentaryTimeout time.Duration

	Logger *slog.Logger

	// now is overridable in tests.
	now func() time.Time
}

func (p *Pipeline) log() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) today() string {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return now().Format(repub.DateLayout)
}

// ingestDate returns the stored article's date when the id already exists,
// so re-ingestion never re-derives the publication date.
func (p *Pipeline) ingestDate(ctx context.Context, id string) string {
	existing, err := p.Articles.FindArticleByID(ctx, id)
	if err == nil && existing != nil {
		return existing.Date
	}
	return p.today()
}

// Delete removes the article from the store and best-effort removes its
// generated page and any uploaded source document. Media assets belonging
// to other articles are never touched; the removed article's own media is
// left for the orphan sweep.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	a, err := p.Articles.FindArticleByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Articles.DeleteArticle(ctx, id); err != nil {
		return err
	}

	if p.SiteDir != "" {
		page := filepath.Join(p.SiteDir, repub.ArticleDir, id+".html")
		if err := os.Remove(page); err != nil && !os.IsNotExist(err) {
			p.log().Warn("removing generated page", slog.String("path", page), slog.Any("err", err))
		}
	}
	if p.UploadDir != "" && strings.HasPrefix(a.URL, repub.UploadRoot+"/") {
		doc := filepath.Join(p.UploadDir, filepath.Base(a.URL))
		if err := os.Remove(doc); err != nil && !os.IsNotExist(err) {
			p.log().Warn("removing uploaded document", slog.String("path", doc), slog.Any("err", err))
		}
	}
	return nil
}
