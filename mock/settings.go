package mock

import (
	"context"

	"github.com/fwojciec/scratches"
)

var _ scratches.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of scratches.SettingsService.
type SettingsService struct {
	LoadSettingsFn func(ctx context.Context) (*scratches.LoadedSettings, error)
	SaveSettingsFn func(ctx context.Context, s scratches.Settings) (*scratches.SaveResult, error)
}

func (s *SettingsService) LoadSettings(ctx context.Context) (*scratches.LoadedSettings, error) {
	return s.LoadSettingsFn(ctx)
}

func (s *SettingsService) SaveSettings(ctx context.Context, settings scratches.Settings) (*scratches.SaveResult, error) {
	return s.SaveSettingsFn(ctx, settings)
}

var _ scratches.SettingsStore = (*SettingsStore)(nil)

// SettingsStore is a mock implementation of scratches.SettingsStore.
type SettingsStore struct {
	ReadSettingsFn  func(ctx context.Context) ([]byte, error)
	WriteSettingsFn func(ctx context.Context, data []byte) error
}

func (s *SettingsStore) ReadSettings(ctx context.Context) ([]byte, error) {
	return s.ReadSettingsFn(ctx)
}

func (s *SettingsStore) WriteSettings(ctx context.Context, data []byte) error {
	return s.WriteSettingsFn(ctx, data)
}

var _ scratches.SyncState = (*SyncState)(nil)

// SyncState is a mock implementation of scratches.SyncState.
type SyncState struct {
	LastSyncFn   func(ctx context.Context) (*scratches.SyncRecord, error)
	MarkSyncedFn func(ctx context.Context, fingerprint string) error
}

func (s *SyncState) LastSync(ctx context.Context) (*scratches.SyncRecord, error) {
	return s.LastSyncFn(ctx)
}

func (s *SyncState) MarkSynced(ctx context.Context, fingerprint string) error {
	return s.MarkSyncedFn(ctx, fingerprint)
}
