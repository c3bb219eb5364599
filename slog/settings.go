package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scratches"
)

// Ensure LoggingSettingsService implements scratches.SettingsService.
var _ scratches.SettingsService = (*LoggingSettingsService)(nil)

// LoggingSettingsService wraps a SettingsService with logging.
type LoggingSettingsService struct {
	next   scratches.SettingsService
	logger *slog.Logger
}

// NewLoggingSettingsService creates a new LoggingSettingsService.
func NewLoggingSettingsService(next scratches.SettingsService, logger *slog.Logger) *LoggingSettingsService {
	return &LoggingSettingsService{next: next, logger: logger}
}

// LoadSettings delegates to the wrapped service and logs where settings
// came from.
func (s *LoggingSettingsService) LoadSettings(ctx context.Context) (loaded *scratches.LoadedSettings, err error) {
	defer func(begin time.Time) {
		var source scratches.SettingsSource
		if loaded != nil {
			source = loaded.Source
		}
		s.logger.Info("load settings",
			"source", source,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadSettings(ctx)
}

// SaveSettings delegates to the wrapped service and logs whether the cloud
// copy was updated.
func (s *LoggingSettingsService) SaveSettings(ctx context.Context, settings scratches.Settings) (result *scratches.SaveResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("save settings",
			"cloud", result != nil && result.SavedToCloud,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveSettings(ctx, settings)
}
