package repub

import "context"

// Fetcher retrieves raw HTML from URLs.
// Implementations may use browser automation for pages that refuse plain
// HTTP clients.
type Fetcher interface {
	// Fetch retrieves the page HTML. The context bounds the request;
	// an unbounded hang is treated the same as a network failure.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// ImageFetcher downloads a single remote image.
type ImageFetcher interface {
	// FetchImage returns the image bytes, or an EUNAVAILABLE error on
	// network failure or a non-success response.
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
