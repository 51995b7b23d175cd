package pgdb

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/settings"
)

type settingsRepository struct {
	db *sqlx.DB
}

var _ settings.Repository = (*settingsRepository)(nil) // interface compliance check

func NewSettingsRepository(db *sqlx.DB) settings.Repository {
	return &settingsRepository{db: db}
}

func (repo *settingsRepository) GetSettings() (settings.Settings, error) {
	var conf settings.Settings
	err := repo.db.QueryRow(`SELECT school_name, classes, reasons, current_week FROM settings WHERE id`).
		Scan(&conf.SchoolName, pq.Array(&conf.Classes), pq.Array(&conf.Reasons), &conf.CurrentWeek)
	if err == sql.ErrNoRows {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, errors.Wrap(err, "getting settings")
	}
	return conf, nil
}

func (repo *settingsRepository) SaveSettings(conf settings.Settings) error {
	_, err := repo.db.Exec(`
		INSERT INTO settings (id, school_name, classes, reasons, current_week)
		VALUES (true, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			school_name = EXCLUDED.school_name,
			classes = EXCLUDED.classes,
			reasons = EXCLUDED.reasons,
			current_week = EXCLUDED.current_week`,
		conf.SchoolName, pq.Array(conf.Classes), pq.Array(conf.Reasons), conf.CurrentWeek,
	)
	if err != nil {
		return errors.Wrap(err, "saving settings")
	}
	return nil
}
