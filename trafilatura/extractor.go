// Package trafilatura provides a generic repub.Extractor for pages that do
// not follow the platform's markup conventions.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/repub"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements repub.Extractor at compile time.
var _ repub.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}
	if len([]rune(result.ContentText)) < repub.MinContentLength {
		contentHTML = repub.PlaceholderContent
	}

	title := strings.TrimSpace(result.Metadata.Title)
	if title == "" {
		title = repub.DefaultTitle
	}
	source := strings.TrimSpace(result.Metadata.Author)
	if source == "" {
		source = strings.TrimSpace(result.Metadata.Sitename)
	}
	if source == "" {
		source = repub.DefaultSource
	}

	return &repub.Extraction{
		Title:       title,
		Source:      source,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
