package ingest

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fwojciec/repub"
)

// PlatformHost is the only web source host the adapter accepts.
const PlatformHost = "mp.weixin.qq.com"

// WebIDPrefix namespaces ids of web-sourced articles.
const WebIDPrefix = "wechat-"

// challengeMarkers flag an anti-bot verification page. A page carrying one
// has no article content, so the pipeline substitutes the restricted
// article instead of extracting from it.
var challengeMarkers = []string{"环境异常", "完成验证"}

const restrictedTitle = "微信公众号文章"

const restrictedSummary = "这是一篇来自微信公众号的文章，由于访问限制，无法获取完整内容。请点击\"阅读原文\"查看完整内容。"

const restrictedContent = `<h2>微信公众号文章</h2>
<p>由于微信公众号的访问限制，我们无法直接获取这篇文章的完整内容。</p>
<p>请点击下方的"阅读原文"按钮，在新窗口中查看完整的文章内容。</p>
<blockquote><p><strong>提示：</strong>如果遇到"环境异常"提示，请按照页面指引完成验证后即可正常访问。</p></blockquote>
<p>我们正在努力改进抓取技术，以便为您提供更好的阅读体验。</p>`

func restrictedTags() []string {
	return []string{"微信公众号", "AI技术"}
}

// WebArticleID derives the stable article id from a platform URL: the last
// path segment, namespaced with WebIDPrefix. Query strings and fragments
// do not participate, so share-link variants of one article converge on
// the same id.
func WebArticleID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", repub.Errorf(repub.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !strings.Contains(u.Hostname(), PlatformHost) {
		return "", repub.Errorf(repub.EUNSUPPORTED, "unsupported source %q: only %s articles can be ingested", rawURL, PlatformHost)
	}
	segment := ""
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segment = part
		}
	}
	if segment == "" {
		return "", repub.Errorf(repub.EINVALID, "URL %q has no article path segment", rawURL)
	}
	return WebIDPrefix + segment, nil
}

// IngestURL fetches a platform article page, extracts and localizes its
// content and upserts the result. Extraction and localization degrade to
// fallback values rather than failing; anti-bot challenge pages yield the
// canned restricted article. Only an unsupported source, a failed fetch
// with no usable fallback, or a store persistence failure surface as
// errors.
func (p *Pipeline) IngestURL(ctx context.Context, rawURL string, opts Options) (*repub.Article, error) {
	id, err := WebArticleID(rawURL)
	if err != nil {
		return nil, err
	}

	html, err := p.fetchPage(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	date := p.ingestDate(ctx, id)

	var a *repub.Article
	if restricted(html) {
		p.log().Warn("challenge page detected, substituting restricted article", slog.String("url", rawURL))
		a = p.restrictedArticle(id, rawURL, date)
	} else {
		extraction, err := p.Extractor.Extract(html)
		if err != nil {
			return nil, err
		}

		content := extraction.ContentHTML
		result, err := p.Localizer.Localize(ctx, id, content)
		if err != nil {
			p.log().Warn("media localization failed, keeping remote references", slog.String("id", id), slog.Any("err", err))
		} else {
			content = result.HTML
			for _, w := range result.Warnings {
				p.log().Warn("image not localized", slog.String("id", id), slog.String("warning", w))
			}
		}

		a = &repub.Article{
			ID:      id,
			Title:   extraction.Title,
			Source:  extraction.Source,
			Summary: repub.Summarize(content),
			URL:     rawURL,
			Date:    date,
			Tags:    ExtractTags(content, extraction.Title),
			Content: content,
		}
	}

	applyOptions(a, opts)
	a.Normalize()

	if err := p.Articles.UpsertArticle(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// fetchPage retrieves the page HTML, trying the browser fetcher when the
// plain fetch fails or returns a challenge page.
func (p *Pipeline) fetchPage(ctx context.Context, rawURL string) (string, error) {
	timeout := p.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := p.Fetcher.Fetch(ctx, rawURL)
	if err == nil && !restricted(html) {
		return html, nil
	}

	if p.Browser != nil {
		if err != nil {
			p.log().Warn("fetch failed, retrying with browser", slog.String("url", rawURL), slog.Any("err", err))
		} else {
			p.log().Warn("challenge page, retrying with browser", slog.String("url", rawURL))
		}
		rendered, berr := p.Browser.Fetch(ctx, rawURL)
		if berr == nil {
			return rendered, nil
		}
		p.log().Warn("browser fetch failed", slog.String("url", rawURL), slog.Any("err", berr))
	}

	if err != nil {
		return "", repub.Errorf(repub.EUNAVAILABLE, "fetching %s: %v", rawURL, err)
	}
	return html, nil
}

func restricted(html string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

func (p *Pipeline) restrictedArticle(id, rawURL, date string) *repub.Article {
	return &repub.Article{
		ID:      id,
		Title:   restrictedTitle,
		Source:  repub.DefaultSource,
		Summary: restrictedSummary,
		URL:     rawURL,
		Date:    date,
		Tags:    restrictedTags(),
		Content: restrictedContent,
	}
}

func applyOptions(a *repub.Article, opts Options) {
	if opts.Title != "" {
		a.Title = opts.Title
	}
	if len(opts.Tags) > 0 {
		a.Tags = repub.NormalizeTags(opts.Tags)
	}
}
