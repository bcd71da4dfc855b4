package goquery

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/repub"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel image downloads for one article.
const DefaultConcurrency = 4

// imageExtensions are the basename extensions accepted as-is; anything else
// gets a hash-derived name with the default extension.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".bmp": true,
}

// Ensure Localizer implements repub.Localizer at compile time.
var _ repub.Localizer = (*Localizer)(nil)

// Localizer downloads remote images referenced by an article body and
// rewrites the references to local paths under the media root. Downloads of
// the same target are idempotent: an existing local file is never refetched.
type Localizer struct {
	Images      repub.ImageFetcher
	Media       repub.MediaStore
	Concurrency int
}

// NewLocalizer creates a Localizer with the default download concurrency.
func NewLocalizer(images repub.ImageFetcher, media repub.MediaStore) *Localizer {
	return &Localizer{Images: images, Media: media, Concurrency: DefaultConcurrency}
}

// Localize scans the body for allowlisted remote image URLs, ensures a local
// copy of each exists, and rewrites the references. A failed download leaves
// the remote URL in place and is reported as a warning, not an error.
func (l *Localizer) Localize(ctx context.Context, articleID, rawHTML string) (*repub.LocalizeResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, repub.Errorf(repub.EINVALID, "failed to parse body: %v", err)
	}

	remote := remoteImageURLs(doc)
	result := &repub.LocalizeResult{HTML: rawHTML}
	if len(remote) == 0 {
		return result, nil
	}

	local := make(map[string]string, len(remote))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	g.SetLimit(concurrency)

	for _, imageURL := range remote {
		g.Go(func() error {
			name := LocalName(articleID, imageURL)

			if l.Media.Exists(name) {
				mu.Lock()
				local[imageURL] = name
				result.Skipped++
				mu.Unlock()
				return nil
			}

			data, err := l.Images.FetchImage(gctx, imageURL)
			if err != nil {
				mu.Lock()
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", imageURL, err))
				mu.Unlock()
				return nil
			}

			created, err := l.Media.WriteImage(name, data)
			if err != nil {
				mu.Lock()
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", imageURL, err))
				mu.Unlock()
				return nil
			}

			mu.Lock()
			local[imageURL] = name
			if created {
				result.Downloaded++
			} else {
				result.Skipped++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(local) == 0 {
		return result, nil
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if val, ok := img.Attr(attr); ok {
				if name, ok := local[val]; ok {
					img.SetAttr(attr, path.Join(repub.MediaRoot, name))
				}
			}
		}
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "serializing body: %v", err)
	}
	result.HTML = html
	return result, nil
}

// remoteImageURLs collects the deduplicated allowlisted image URLs in
// document order.
func remoteImageURLs(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var urls []string
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if src == "" || seen[src] {
			return
		}
		u, err := url.Parse(src)
		if err != nil || !allowedHost(u.Host) {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	})
	return urls
}

func allowedHost(host string) bool {
	for _, h := range repub.RemoteMediaHosts {
		if host == h {
			return true
		}
	}
	return false
}

// LocalName computes the deterministic local file name for a remote image:
// the URL's path basename when it carries a recognizable image extension,
// else a content-hash-derived name with the default extension. The name is
// always prefixed with the article ID to avoid cross-article collisions.
func LocalName(articleID, imageURL string) string {
	base := ""
	if u, err := url.Parse(imageURL); err == nil {
		base = path.Base(u.Path)
	}
	if !imageExtensions[strings.ToLower(path.Ext(base))] {
		base = fmt.Sprintf("%016x.jpg", xxhash.Sum64String(imageURL))
	}
	return articleID + "_" + base
}
