package repub

import "context"

// Commentator produces human-readable analysis prose for a document's text.
// It is an opaque text-generation dependency: input is text, output is a
// string. Callers must treat failures and timeouts as recoverable and fall
// back to templated text instead of blocking ingestion.
type Commentator interface {
	Comment(ctx context.Context, title, text string) (string, error)
}
