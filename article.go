package repub

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Limits and fallback values applied when normalizing articles. The
// fallbacks mirror the site's presentation language; they are substituted
// whenever extraction yields nothing usable, so a persisted article is never
// missing a title, tags or a body.
const (
	// MaxTags is the maximum number of tags persisted per article.
	MaxTags = 5

	// SummaryLength is the character budget for plain-text summaries.
	SummaryLength = 200

	// MinContentLength is the floor below which an extracted body is
	// considered failed and replaced with PlaceholderContent.
	MinContentLength = 100

	// DateLayout is the calendar-date format used by the record store.
	DateLayout = "2006-01-02"

	DefaultTitle       = "微信公众号文章"
	DefaultSource      = "微信公众号"
	PlaceholderContent = "<p>无法提取文章内容，请点击原文链接查看。</p>"
)

// DefaultTags is substituted when tag extraction yields nothing.
func DefaultTags() []string {
	return []string{"技术", "AI", "文章"}
}

// Article is the sole persisted entity: one normalized content record.
// The JSON field names are the record store's on-disk contract.
type Article struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Source  string   `json:"source"`
	Summary string   `json:"summary"`
	URL     string   `json:"url"`
	Date    string   `json:"date"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.ID == "" {
		return Errorf(EINVALID, "article ID required")
	}
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if len(a.Tags) == 0 {
		return Errorf(EINVALID, "article tags required")
	}
	if a.Date != "" {
		if _, err := time.Parse(DateLayout, a.Date); err != nil {
			return Errorf(EINVALID, "article date %q is not a calendar date", a.Date)
		}
	}
	return nil
}

// Normalize substitutes fallback values so the article satisfies the store's
// invariants: non-empty title and tags, a body above the minimum content
// floor, and a summary within budget. It never fails; degraded extraction
// results become placeholder values instead.
func (a *Article) Normalize() {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = DefaultTitle
	}
	if strings.TrimSpace(a.Source) == "" {
		a.Source = DefaultSource
	}
	if len([]rune(plainText(a.Content))) < MinContentLength && !isPlaceholder(a.Content) {
		a.Content = PlaceholderContent
	}
	if a.Summary == "" {
		a.Summary = Summarize(a.Content)
	}
	a.Tags = NormalizeTags(a.Tags)
}

// isPlaceholder reports whether content is one of the substituted bodies,
// which are themselves shorter than the content floor.
func isPlaceholder(content string) bool {
	return content == PlaceholderContent
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// plainText strips markup tags and collapses whitespace.
func plainText(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// Summarize derives a plain-text summary from body markup, truncated to
// SummaryLength characters with an ellipsis marker.
func Summarize(content string) string {
	text := plainText(content)
	runes := []rune(text)
	if len(runes) > SummaryLength {
		return string(runes[:SummaryLength]) + "..."
	}
	return text
}

// NormalizeTags deduplicates tags preserving order, caps them at MaxTags and
// substitutes DefaultTags when nothing remains.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	if len(out) == 0 {
		return DefaultTags()
	}
	return out
}

// ArticleService represents a service for managing articles in the record
// store. Upserts are keyed by ID only: an existing record is replaced in
// place, a new record is prepended so the store stays most-recent-first.
type ArticleService interface {
	// FindArticles retrieves all articles in store order.
	FindArticles(ctx context.Context) ([]*Article, error)

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if the article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// UpsertArticle inserts or replaces an article keyed by ID.
	UpsertArticle(ctx context.Context, article *Article) error

	// UpdateArticle updates only the named metadata fields.
	// Returns ENOTFOUND if the article does not exist.
	UpdateArticle(ctx context.Context, id string, upd ArticleUpdate) (*Article, error)

	// DeleteArticle permanently removes an article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, id string) error
}

// ArticleUpdate represents the metadata-only fields that can be updated
// without re-ingesting the article. Content is deliberately absent; it only
// changes through the ingestion pipeline.
type ArticleUpdate struct {
	Title   *string   `json:"title"`
	Source  *string   `json:"source"`
	Summary *string   `json:"summary"`
	URL     *string   `json:"url"`
	Date    *string   `json:"date"`
	Tags    *[]string `json:"tags"`
}
