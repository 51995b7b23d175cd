package pgdb

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	username      text NOT NULL UNIQUE,
	full_name     text NOT NULL DEFAULT '',
	email         text NOT NULL DEFAULT '',
	role          text NOT NULL,
	class         text NOT NULL DEFAULT '',
	is_active     boolean NOT NULL DEFAULT true,
	password_hash bytea,
	created_at    timestamptz NOT NULL,
	updated_at    timestamptz NOT NULL,
	last_login    timestamptz
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id             text PRIMARY KEY,
	student_name   text NOT NULL,
	class          text NOT NULL DEFAULT '',
	week           integer NOT NULL,
	reason         text NOT NULL,
	detail         text NOT NULL DEFAULT '',
	from_date      text NOT NULL,
	to_date        text NOT NULL,
	attachment_url text NOT NULL DEFAULT '',
	status         text NOT NULL,
	created_by     text NOT NULL,
	created_at     timestamptz NOT NULL,
	approver       text NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS leave_requests_created_at_idx ON leave_requests (created_at DESC);

CREATE TABLE IF NOT EXISTS settings (
	id           boolean PRIMARY KEY DEFAULT true CHECK (id),
	school_name  text NOT NULL,
	classes      text[] NOT NULL,
	reasons      text[] NOT NULL,
	current_week integer NOT NULL
);
`

func Open(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return db, nil
}

// Migrate brings the schema up to date. Statements are idempotent.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "migrating database schema")
	}
	return nil
}
