// Package cloudsync implements scratches.SettingsService over a local
// settings cache and an optional cloud store.
package cloudsync

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scratches"
)

// Ensure Service implements scratches.SettingsService at compile time.
var _ scratches.SettingsService = (*Service)(nil)

// Fingerprint returns a hash of a settings document. Equal documents have
// equal fingerprints.
func Fingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Service loads settings from the cloud when possible and keeps a local
// copy for offline use. Cloud failures degrade to the local copy and are
// only logged.
type Service struct {
	// Local caches the last known settings. Required.
	Local scratches.SettingsStore

	// Cloud is the sync endpoint. Nil disables sync.
	Cloud scratches.SettingsStore

	// State records the last document written to Cloud. Nil uploads on
	// every save.
	State scratches.SyncState

	Logger *slog.Logger
}

// NewService creates a Service with a discarding logger.
func NewService(local, cloud scratches.SettingsStore, state scratches.SyncState) *Service {
	return &Service{
		Local:  local,
		Cloud:  cloud,
		State:  state,
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LoadSettings tries the cloud, then the local cache, then defaults.
// Settings read from the cloud refresh the local cache. Stored documents are
// migrated on read. Only unexpected local errors are returned.
func (s *Service) LoadSettings(ctx context.Context) (*scratches.LoadedSettings, error) {
	if s.Cloud != nil {
		if settings, ok := s.loadCloud(ctx); ok {
			return &scratches.LoadedSettings{Settings: settings, Source: scratches.SettingsFromCloud}, nil
		}
	}

	data, err := s.Local.ReadSettings(ctx)
	switch {
	case scratches.ErrorCode(err) == scratches.ENOTFOUND:
		return &scratches.LoadedSettings{Settings: scratches.DefaultSettings(), Source: scratches.SettingsFromDefaults}, nil
	case err != nil:
		return nil, err
	}

	settings, err := scratches.ParseSettings(data)
	if err != nil {
		s.Logger.Warn("discarding unreadable local settings", "err", err)
		return &scratches.LoadedSettings{Settings: scratches.DefaultSettings(), Source: scratches.SettingsFromDefaults}, nil
	}
	return &scratches.LoadedSettings{Settings: settings, Source: scratches.SettingsFromLocal}, nil
}

func (s *Service) loadCloud(ctx context.Context) (scratches.Settings, bool) {
	data, err := s.Cloud.ReadSettings(ctx)
	if err != nil {
		if scratches.ErrorCode(err) != scratches.ENOTFOUND {
			s.Logger.Warn("cloud settings unavailable", "err", err)
		}
		return scratches.Settings{}, false
	}

	settings, err := scratches.ParseSettings(data)
	if err != nil {
		s.Logger.Warn("discarding unreadable cloud settings", "err", err)
		return scratches.Settings{}, false
	}

	canonical, err := scratches.MarshalSettings(settings)
	if err != nil {
		return settings, true
	}
	if err := s.Local.WriteSettings(ctx, canonical); err != nil {
		s.Logger.Warn("refreshing local settings failed", "err", err)
		return settings, true
	}
	s.markSynced(ctx, Fingerprint(canonical))
	return settings, true
}

// SaveSettings validates settings, writes them locally and, when a cloud
// store is configured, uploads them unless the last sync already carried
// the same document. SavedToCloud reports whether the cloud holds settings
// after the call. A failed upload is not an error.
func (s *Service) SaveSettings(ctx context.Context, settings scratches.Settings) (*scratches.SaveResult, error) {
	settings = settings.Clean()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	data, err := scratches.MarshalSettings(settings)
	if err != nil {
		return nil, err
	}
	if err := s.Local.WriteSettings(ctx, data); err != nil {
		return nil, err
	}

	if s.Cloud == nil {
		return &scratches.SaveResult{}, nil
	}

	fp := Fingerprint(data)
	if s.State != nil {
		if rec, err := s.State.LastSync(ctx); err == nil && rec.Fingerprint == fp {
			s.Logger.Debug("cloud settings unchanged, skipping upload", "fingerprint", fp)
			return &scratches.SaveResult{SavedToCloud: true}, nil
		}
	}

	if err := s.Cloud.WriteSettings(ctx, data); err != nil {
		s.Logger.Warn("uploading settings failed", "err", err)
		return &scratches.SaveResult{}, nil
	}
	s.markSynced(ctx, fp)
	return &scratches.SaveResult{SavedToCloud: true}, nil
}

func (s *Service) markSynced(ctx context.Context, fp string) {
	if s.State == nil {
		return
	}
	if err := s.State.MarkSynced(ctx, fp); err != nil {
		s.Logger.Warn("recording sync failed", "err", err)
	}
}
