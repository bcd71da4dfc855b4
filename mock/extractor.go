package mock

import "github.com/fwojciec/repub"

var _ repub.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of repub.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*repub.Extraction, error)
}

func (e *Extractor) Extract(html string) (*repub.Extraction, error) {
	return e.ExtractFn(html)
}
