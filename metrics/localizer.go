package metrics

import (
	"context"

	"github.com/fwojciec/repub"
)

// InstrumentedLocalizer records per-article localization counts on the
// collector before passing the result through.
type InstrumentedLocalizer struct {
	next      repub.Localizer
	collector *Collector
}

var _ repub.Localizer = (*InstrumentedLocalizer)(nil)

func NewInstrumentedLocalizer(next repub.Localizer, collector *Collector) *InstrumentedLocalizer {
	return &InstrumentedLocalizer{next: next, collector: collector}
}

func (l *InstrumentedLocalizer) Localize(ctx context.Context, articleID, html string) (*repub.LocalizeResult, error) {
	result, err := l.next.Localize(ctx, articleID, html)
	if err != nil {
		return nil, err
	}
	l.collector.RecordLocalization(result.Downloaded, result.Skipped, len(result.Warnings))
	return result, nil
}
