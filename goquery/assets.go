package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/repub"
)

// LocalImageNames returns the media asset names referenced by img tags in
// the given HTML fragment, in document order without duplicates. Only
// localized references under the media root are returned; remote URLs are
// ignored.
func LocalImageNames(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "parsing HTML: %v", err)
	}

	prefix := repub.MediaRoot + "/"
	seen := make(map[string]bool)
	var names []string
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok {
			return
		}
		src = strings.TrimPrefix(src, "../")
		src = strings.TrimPrefix(src, "./")
		if !strings.HasPrefix(src, prefix) {
			return
		}
		name := strings.TrimPrefix(src, prefix)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})
	return names, nil
}
