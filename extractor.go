package repub

// Extraction holds the content pulled out of a source page.
// Every field degrades to a fallback value rather than being empty: a
// fallback-heavy extraction is still a usable article.
type Extraction struct {
	// Title is the article title, or DefaultTitle when no selector matched.
	Title string

	// Source is the publisher/channel label, or DefaultSource.
	Source string

	// ContentHTML is the cleaned article body markup, or
	// PlaceholderContent when no content candidate passed the length floor.
	ContentHTML string
}

// Extractor locates title, source and body in raw page markup via a
// prioritized selector search and strips non-content elements.
// Extract never fails on malformed or missing elements.
type Extractor interface {
	Extract(html string) (*Extraction, error)
}
