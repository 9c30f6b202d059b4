package prefs

import (
	"context"

	"github.com/tgienger/tasks/internal/db"
)

// SettingsStore keeps preferences in the local settings table.
type SettingsStore struct {
	db *db.DB
}

// NewSettingsStore creates a SettingsStore.
func NewSettingsStore(database *db.DB) *SettingsStore {
	return &SettingsStore{db: database}
}

func (s *SettingsStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.db.LookupSetting(ctx, key)
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	return s.db.SetSetting(ctx, key, value)
}
