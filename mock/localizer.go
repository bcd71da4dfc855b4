package mock

import (
	"context"

	"github.com/fwojciec/repub"
)

var _ repub.Localizer = (*Localizer)(nil)

// Localizer is a mock implementation of repub.Localizer.
type Localizer struct {
	LocalizeFn func(ctx context.Context, articleID, html string) (*repub.LocalizeResult, error)
}

func (l *Localizer) Localize(ctx context.Context, articleID, html string) (*repub.LocalizeResult, error) {
	return l.LocalizeFn(ctx, articleID, html)
}
