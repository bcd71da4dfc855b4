// Package readability provides a generic repub.Extractor for pages that do
// not follow the platform's markup conventions.
package readability

import (
	"strings"

	"github.com/fwojciec/repub"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements repub.Extractor at compile time.
var _ repub.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Missing fields
// degrade to the shared fallback values, matching the platform extractor's
// contract.
func (e *Extractor) Extract(rawHTML string) (*repub.Extraction, error) {
	if rawHTML == "" {
		return nil, repub.Errorf(repub.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = repub.DefaultTitle
	}
	source := strings.TrimSpace(article.Byline)
	if source == "" {
		source = repub.DefaultSource
	}
	content := article.Content
	if len([]rune(article.TextContent)) < repub.MinContentLength {
		content = repub.PlaceholderContent
	}

	return &repub.Extraction{
		Title:       title,
		Source:      source,
		ContentHTML: content,
	}, nil
}
