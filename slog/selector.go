package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scratches"
)

// Ensure LoggingSelectorFinder implements scratches.SelectorFinder.
var _ scratches.SelectorFinder = (*LoggingSelectorFinder)(nil)

// LoggingSelectorFinder wraps a SelectorFinder with logging.
type LoggingSelectorFinder struct {
	next   scratches.SelectorFinder
	logger *slog.Logger
}

// NewLoggingSelectorFinder creates a new LoggingSelectorFinder.
func NewLoggingSelectorFinder(next scratches.SelectorFinder, logger *slog.Logger) *LoggingSelectorFinder {
	return &LoggingSelectorFinder{next: next, logger: logger}
}

// SuggestSelectors delegates to the wrapped finder and logs the suggestion.
func (f *LoggingSelectorFinder) SuggestSelectors(ctx context.Context, pageURL string) (s *scratches.SelectorSuggestion, err error) {
	defer func(begin time.Time) {
		var content string
		var removals int
		if s != nil {
			content = s.ContentSelector
			removals = len(s.ElementsToRemove)
		}
		f.logger.Info("suggest selectors",
			"url", pageURL,
			"content", content,
			"removals", removals,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.SuggestSelectors(ctx, pageURL)
}
