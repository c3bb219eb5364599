package scratches

import (
	"context"
	"time"
)

// SettingsSource tells where loaded settings came from.
type SettingsSource string

// Settings sources.
const (
	SettingsFromCloud    SettingsSource = "cloud"
	SettingsFromLocal    SettingsSource = "local"
	SettingsFromDefaults SettingsSource = "defaults"
)

// LoadedSettings is the result of SettingsService.LoadSettings.
type LoadedSettings struct {
	Settings Settings
	Source   SettingsSource
}

// SaveResult is the result of SettingsService.SaveSettings.
type SaveResult struct {
	SavedToCloud bool
}

// SettingsService loads and saves the user's settings.
type SettingsService interface {
	// LoadSettings returns the current settings. It falls back to defaults
	// when nothing is stored, so it only fails on unexpected errors.
	LoadSettings(ctx context.Context) (*LoadedSettings, error)

	// SaveSettings persists settings. Returns EINVALID if they do not validate.
	SaveSettings(ctx context.Context, s Settings) (*SaveResult, error)
}

// SettingsStore holds the raw stored settings document. Stored documents may
// be in a legacy shape; use ParseSettings to read them.
type SettingsStore interface {
	// ReadSettings returns the stored document.
	// Returns ENOTFOUND if nothing has been stored yet.
	ReadSettings(ctx context.Context) ([]byte, error)

	// WriteSettings replaces the stored document.
	WriteSettings(ctx context.Context, data []byte) error
}

// SyncRecord describes the last successful write to the cloud.
type SyncRecord struct {
	Fingerprint string
	SyncedAt    time.Time
}

// SyncState remembers what was last written to the cloud so unchanged
// settings are not uploaded again.
type SyncState interface {
	// LastSync returns the last successful sync.
	// Returns ENOTFOUND if nothing has been synced yet.
	LastSync(ctx context.Context) (*SyncRecord, error)

	// MarkSynced records a successful sync of the document with fingerprint.
	MarkSynced(ctx context.Context, fingerprint string) error
}
