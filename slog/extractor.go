package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scratches"
)

// Ensure LoggingExtractor implements scratches.Extractor.
var _ scratches.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging. Failed extractions are
// logged at warn level since the extractor itself reports them in the
// result.
type LoggingExtractor struct {
	next   scratches.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next scratches.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(req *scratches.ExtractRequest, settings scratches.Settings) (result *scratches.ExtractionResult) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if result != nil && result.Source == scratches.SourceError {
			level = slog.LevelWarn
		}
		var url string
		if req != nil {
			url = req.URL
		}
		var source scratches.Source
		var chars int
		if result != nil {
			source = result.Source
			chars = len([]rune(result.Body))
		}
		e.logger.Log(context.Background(), level, "extract",
			"url", url,
			"strategy", settings.ContentExtraction.Strategy,
			"source", source,
			"chars", chars,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(req, settings)
}
