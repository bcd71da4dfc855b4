package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repub"
)

// Ensure LoggingLocalizer implements repub.Localizer.
var _ repub.Localizer = (*LoggingLocalizer)(nil)

// LoggingLocalizer wraps a Localizer with per-pass outcome logging.
type LoggingLocalizer struct {
	next   repub.Localizer
	logger *slog.Logger
}

// NewLoggingLocalizer creates a new LoggingLocalizer.
func NewLoggingLocalizer(next repub.Localizer, logger *slog.Logger) *LoggingLocalizer {
	return &LoggingLocalizer{next: next, logger: logger}
}

// Localize delegates to the wrapped localizer, logging the download,
// skip and warning counts.
func (l *LoggingLocalizer) Localize(ctx context.Context, articleID, html string) (*repub.LocalizeResult, error) {
	begin := time.Now()
	result, err := l.next.Localize(ctx, articleID, html)
	if err != nil {
		l.logger.Error("localize",
			slog.String("id", articleID),
			slog.Duration("duration", time.Since(begin)),
			slog.Any("err", err),
		)
		return nil, err
	}
	l.logger.Info("localize",
		slog.String("id", articleID),
		slog.Int("downloaded", result.Downloaded),
		slog.Int("skipped", result.Skipped),
		slog.Int("warnings", len(result.Warnings)),
		slog.Duration("duration", time.Since(begin)),
	)
	return result, nil
}
