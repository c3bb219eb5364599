package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/scratches"
)

// DefaultProfile is the settings row used when no profile is named.
const DefaultProfile = "default"

// Compile-time interface verification.
var (
	_ scratches.SettingsStore = (*SettingsStore)(nil)
	_ scratches.SyncState     = (*SettingsStore)(nil)
)

// SettingsStore implements scratches.SettingsStore and scratches.SyncState
// using SQLite. Each store reads and writes one named row.
type SettingsStore struct {
	db      *DB
	profile string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewSettingsStore creates a store for profile. An empty profile selects
// DefaultProfile.
func NewSettingsStore(db *DB, profile string) *SettingsStore {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = DefaultProfile
	}
	return &SettingsStore{db: db, profile: profile, Now: time.Now}
}

// Profile returns the name of the row the store works on.
func (s *SettingsStore) Profile() string {
	return s.profile
}

// ReadSettings returns the stored document.
// Returns ENOTFOUND if nothing has been stored for the profile.
func (s *SettingsStore) ReadSettings(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE name = ?
	`, s.profile).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, scratches.Errorf(scratches.ENOTFOUND, "no settings stored for profile %q", s.profile)
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// WriteSettings replaces the stored document.
// Returns EINVALID if data is empty.
func (s *SettingsStore) WriteSettings(ctx context.Context, data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return scratches.Errorf(scratches.EINVALID, "settings document required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (name, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.profile, string(data), formatTime(s.Now()))
	return err
}

// DeleteSettings removes the stored document and its sync record.
// Returns ENOTFOUND if nothing was stored.
func (s *SettingsStore) DeleteSettings(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE name = ?`, s.profile)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return scratches.Errorf(scratches.ENOTFOUND, "no settings stored for profile %q", s.profile)
	}
	return nil
}

// LastSync returns the last successful sync of the profile.
// Returns ENOTFOUND if the profile was never synced.
func (s *SettingsStore) LastSync(ctx context.Context) (*scratches.SyncRecord, error) {
	var rec scratches.SyncRecord
	var syncedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, synced_at FROM sync_state WHERE name = ?
	`, s.profile).Scan(&rec.Fingerprint, &syncedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, scratches.Errorf(scratches.ENOTFOUND, "profile %q was never synced", s.profile)
	}
	if err != nil {
		return nil, err
	}

	rec.SyncedAt, err = parseRFC3339(syncedAt, "synced_at")
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkSynced records a successful sync. The profile must have a stored
// document; returns ENOTFOUND otherwise.
func (s *SettingsStore) MarkSynced(ctx context.Context, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (name, fingerprint, synced_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			synced_at = excluded.synced_at
	`, s.profile, fingerprint, formatTime(s.Now()))

	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY") {
		return scratches.Errorf(scratches.ENOTFOUND, "no settings stored for profile %q", s.profile)
	}
	return err
}
