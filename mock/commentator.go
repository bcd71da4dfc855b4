package mock

import (
	"context"

	"github.com/fwojciec/repub"
)

var _ repub.Commentator = (*Commentator)(nil)

// Commentator is a mock implementation of repub.Commentator.
type Commentator struct {
	CommentFn func(ctx context.Context, title, text string) (string, error)
}

func (c *Commentator) Comment(ctx context.Context, title, text string) (string, error) {
	return c.CommentFn(ctx, title, text)
}
