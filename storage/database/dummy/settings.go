package dummydb

import (
	"github.com/nvthanh/eduleave/core/settings"
)

type settingsRepository struct {
	db *settingsTable
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *DB) settings.Repository {
	return &settingsRepository{db: db.settings}
}

func (repo *settingsRepository) GetSettings() (settings.Settings, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.db.conf == nil {
		return settings.Default(), nil
	}
	return *repo.db.conf, nil
}

func (repo *settingsRepository) SaveSettings(conf settings.Settings) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.conf = &conf
	return nil
}
