// Package goquery implements markup extraction, cleaning and image
// localization on top of a parsed HTML tree. All read/mutate operations in
// the pipeline share this one tree abstraction; text-level regex is reserved
// for the final whitespace collapse.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repub"
)

// platformBase qualifies path-relative links found in article bodies.
const platformBase = "https://mp.weixin.qq.com"

// minTitleLength rejects selector matches that are too short to be a title.
const minTitleLength = 3

// imageStyle is forced onto every body image so remote fixed-width markup
// renders responsively.
const imageStyle = "max-width: 100%; height: auto; display: block; margin: 16px auto;"

// Selector cascades, most specific first. The first non-empty match above
// the length floor wins; an exhausted cascade falls back to a fixed value.
var (
	titleSelectors   = []string{"h1#activity-name", "h1.rich_media_title", "h1", "title"}
	sourceSelectors  = []string{".profile_nickname", ".rich_media_meta_text", ".author"}
	contentSelectors = []string{"#js_content", ".rich_media_content", ".content", "article"}
)

// Ensure Extractor implements repub.Extractor at compile time.
var _ repub.Extractor = (*Extractor)(nil)

// Extractor extracts article content from WeChat Official Account pages
// using prioritized selector cascades. Extraction never fails on malformed
// or missing elements; every field degrades to a fallback value.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw page HTML and returns title, source and cleaned body.
func (e *Extractor) Extract(rawHTML string) (*repub.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, repub.Errorf(repub.EINVALID, "failed to parse HTML: %v", err)
	}

	return &repub.Extraction{
		Title:       firstText(doc, titleSelectors, minTitleLength, repub.DefaultTitle),
		Source:      firstText(doc, sourceSelectors, 0, repub.DefaultSource),
		ContentHTML: extractBody(doc),
	}, nil
}

// firstText tries each selector in order and returns the first trimmed text
// longer than min, else the fallback.
func firstText(doc *goquery.Document, selectors []string, min int, fallback string) string {
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if len([]rune(text)) > min {
			return text
		}
	}
	return fallback
}

// extractBody tries each content-container candidate, cleans it, and accepts
// the first whose cleaned text exceeds the minimum content floor.
func extractBody(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		cleaned := Clean(sel)
		if len([]rune(textOf(cleaned))) > repub.MinContentLength {
			return cleaned
		}
	}
	return repub.PlaceholderContent
}

var textPattern = regexp.MustCompile(`<[^>]+>`)

func textOf(html string) string {
	return strings.TrimSpace(textPattern.ReplaceAllString(html, ""))
}

var (
	hiddenVisibilityPattern = regexp.MustCompile(`(?i)visibility\s*:\s*hidden[^;]*;?`)
	zeroOpacityPattern      = regexp.MustCompile(`(?i)opacity\s*:\s*0[^;]*;?`)
	doubleSemicolonPattern  = regexp.MustCompile(`;\s*;`)
	interTagSpacePattern    = regexp.MustCompile(`>\s+<`)
	spaceRunPattern         = regexp.MustCompile(`\s+`)
)

// Clean normalizes a body element in place and returns its serialized HTML:
// script/style/noscript removed, hidden-visibility and zero-opacity style
// directives stripped, images normalized to their lazy-load source with an
// alt and a responsive style, anchors forced to open the original in a new
// window, and redundant whitespace between tags collapsed.
func Clean(sel *goquery.Selection) string {
	sel.Find("script, style, noscript").Remove()

	sel.Find("[style]").AddSelection(sel.Filter("[style]")).Each(func(_ int, s *goquery.Selection) {
		repairHiddenStyle(s)
	})

	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("data-src")
		if !ok || src == "" {
			src, _ = img.Attr("src")
		}
		if src == "" {
			return
		}
		img.SetAttr("src", src)
		img.SetAttr("data-src", src)
		if alt, ok := img.Attr("alt"); !ok || alt == "" {
			img.SetAttr("alt", "图片")
		}
		img.SetAttr("style", imageStyle)
	})

	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" && !strings.HasPrefix(href, "http") {
			a.SetAttr("href", platformBase+href)
		}
		a.SetAttr("target", "_blank")
		a.SetAttr("rel", "noopener")
	})

	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	html = spaceRunPattern.ReplaceAllString(html, " ")
	return strings.TrimSpace(interTagSpacePattern.ReplaceAllString(html, "><"))
}

// repairHiddenStyle strips only the hiding directives from an inline style,
// preserving other declarations and dropping the attribute when nothing
// remains.
func repairHiddenStyle(s *goquery.Selection) {
	style, ok := s.Attr("style")
	if !ok {
		return
	}
	lower := strings.ToLower(style)
	if !strings.Contains(lower, "visibility") && !strings.Contains(lower, "opacity") {
		return
	}

	style = hiddenVisibilityPattern.ReplaceAllString(style, "")
	style = zeroOpacityPattern.ReplaceAllString(style, "")
	style = doubleSemicolonPattern.ReplaceAllString(style, ";")
	style = strings.Trim(style, "; ")

	if style == "" {
		s.RemoveAttr("style")
		return
	}
	s.SetAttr("style", style)
}
