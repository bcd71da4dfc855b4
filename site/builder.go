// Package site materializes the record store into a static site: one page
// per article, an index of teaser cards and an RSS feed, all referencing
// each other via relative paths only. Building is a pure projection of the
// store's contents; an unchanged store always yields byte-identical output.
package site

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repub"
)

// Ensure Builder implements repub.SiteBuilder at compile time.
var _ repub.SiteBuilder = (*Builder)(nil)

const (
	indexFile = "index.html"
	feedFile  = "feed.xml"
)

// Builder generates the static site under a root directory. Output is
// staged in a temporary directory and swapped in whole, so a failed build
// never leaves a half-written site. The media root under the same
// directory is owned by the localizer and is left untouched.
type Builder struct {
	dir       string
	baseURL   string
	converter repub.Converter
	index     *template.Template
	article   *template.Template
}

// Option configures a Builder.
type Option func(*Builder)

// WithBaseURL sets the absolute site URL used for feed links. Without it
// the feed carries site-relative links.
func WithBaseURL(u string) Option {
	return func(b *Builder) {
		b.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithConverter enables the markdown export alongside the HTML pages.
func WithConverter(c repub.Converter) Option {
	return func(b *Builder) {
		b.converter = c
	}
}

// NewBuilder creates a Builder writing to dir.
func NewBuilder(dir string, opts ...Option) *Builder {
	b := &Builder{
		dir:     dir,
		index:   template.Must(template.New("index").Parse(indexTemplate)),
		article: template.Must(template.New("article").Parse(articleTemplate)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Dir returns the site root directory.
func (b *Builder) Dir() string {
	return b.dir
}

type articlePage struct {
	*repub.Article
	Body template.HTML
}

// OriginalURL returns the link target for the open-original action.
// Local document paths are root-relative in the store, so they need the
// same parent-dir adjustment as media references.
func (p articlePage) OriginalURL() string {
	u := p.Article.URL
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	return "../" + u
}

type indexPage struct {
	Articles []*repub.Article
}

// Build regenerates the whole site from the given articles, in store
// order. Pages under the article directory live one level below the index,
// so media references in article bodies are rewritten with a parent-dir
// prefix derived from the shared layout constants.
func (b *Builder) Build(ctx context.Context, articles []*repub.Article) error {
	staging := filepath.Join(b.dir, ".build.tmp")
	if err := os.RemoveAll(staging); err != nil {
		return repub.Errorf(repub.EINTERNAL, "clearing staging dir: %v", err)
	}
	defer os.RemoveAll(staging)

	if err := os.MkdirAll(filepath.Join(staging, repub.ArticleDir), 0o755); err != nil {
		return repub.Errorf(repub.EINTERNAL, "creating staging dir: %v", err)
	}

	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := articlePage{Article: a, Body: template.HTML(RewriteMediaPaths(a.Content))}
		path := filepath.Join(staging, repub.ArticleDir, a.ID+".html")
		if err := b.render(path, b.article, page); err != nil {
			return err
		}
	}

	if err := b.render(filepath.Join(staging, indexFile), b.index, indexPage{Articles: articles}); err != nil {
		return err
	}

	feed, err := b.feed(articles)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(staging, feedFile), feed, 0o644); err != nil {
		return repub.Errorf(repub.EINTERNAL, "writing feed: %v", err)
	}

	return b.commit(staging)
}

func (b *Builder) render(path string, tmpl *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return repub.Errorf(repub.EINTERNAL, "creating %s: %v", path, err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return repub.Errorf(repub.EINTERNAL, "rendering %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		return repub.Errorf(repub.EINTERNAL, "writing %s: %v", path, err)
	}
	return nil
}

// commit swaps the staged output into place. Only the generated artifacts
// are replaced; the media root and uploaded documents are preserved.
func (b *Builder) commit(staging string) error {
	for _, name := range []string{repub.ArticleDir, indexFile, feedFile} {
		final := filepath.Join(b.dir, name)
		if err := os.RemoveAll(final); err != nil {
			return repub.Errorf(repub.EINTERNAL, "removing %s: %v", final, err)
		}
		if err := os.Rename(filepath.Join(staging, name), final); err != nil {
			return repub.Errorf(repub.EINTERNAL, "installing %s: %v", final, err)
		}
	}
	return nil
}

// RewriteMediaPaths adjusts body references to the shared media and upload
// roots for a page living in the article directory, one level below the
// index. Stored content always addresses both roots relative to the site
// root (a leading "./" is tolerated for hand-edited entries); the depth
// adjustment happens only here, so the stored paths and the per-article
// pages cannot drift apart. Rewriting operates on the parsed tree like the
// rest of the pipeline; on a parse failure the body is embedded unchanged.
func RewriteMediaPaths(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	mediaPrefix := repub.MediaRoot + "/"
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := s.Attr(attr); ok {
				if trimmed := strings.TrimPrefix(v, "./"); strings.HasPrefix(trimmed, mediaPrefix) {
					s.SetAttr(attr, "../"+trimmed)
				}
			}
		}
	})

	uploadPrefix := repub.UploadRoot + "/"
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("href"); ok {
			if trimmed := strings.TrimPrefix(v, "./"); strings.HasPrefix(trimmed, uploadPrefix) {
				s.SetAttr("href", "../"+trimmed)
			}
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return html
	}
	return out
}

// Export writes one markdown document per article to outDir using the
// configured converter. It is a separate projection from Build and shares
// its determinism property.
func (b *Builder) Export(ctx context.Context, articles []*repub.Article, outDir string) error {
	if b.converter == nil {
		return repub.Errorf(repub.EUNSUPPORTED, "markdown export requires a converter")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return repub.Errorf(repub.EINTERNAL, "creating export dir: %v", err)
	}
	for _, a := range articles {
		if err := ctx.Err(); err != nil {
			return err
		}
		md, err := b.converter.Convert(a.Content)
		if err != nil {
			return repub.Errorf(repub.EINTERNAL, "converting %s: %v", a.ID, err)
		}
		doc := fmt.Sprintf("# %s\n\n> %s · %s\n\n%s\n", a.Title, a.Source, a.Date, md)
		path := filepath.Join(outDir, a.ID+".md")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return repub.Errorf(repub.EINTERNAL, "writing %s: %v", path, err)
		}
	}
	return nil
}
