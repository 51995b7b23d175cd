package pgdb

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           string       `db:"id"`
	Username     string       `db:"username"`
	FullName     string       `db:"full_name"`
	Email        string       `db:"email"`
	Role         string       `db:"role"`
	Class        string       `db:"class"`
	IsActive     bool         `db:"is_active"`
	PasswordHash []byte       `db:"password_hash"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (row userRow) toUser() user.User {
	usr := user.User{
		ID:           row.ID,
		Username:     row.Username,
		FullName:     row.FullName,
		Email:        row.Email,
		Role:         row.Role,
		Class:        row.Class,
		IsActive:     row.IsActive,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.LastLogin.Valid {
		usr.LastLogin = row.LastLogin.Time
	}
	return usr
}

func toUsers(rows []userRow) []user.User {
	users := make([]user.User, len(rows))
	for i, row := range rows {
		users[i] = row.toUser()
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, len(excludedUsers))
	for i, usr := range excludedUsers {
		excluded[i] = usr.ID
	}

	var usernameTaken, emailTaken bool
	err := repo.db.QueryRow(`
		SELECT
			EXISTS (SELECT 1 FROM users WHERE username = $1 AND id != ALL($3)),
			EXISTS (SELECT 1 FROM users WHERE $2 != '' AND email = $2 AND id != ALL($3))`,
		username, email, idArray(excluded),
	).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if usernameTaken {
		return user.ErrUsernameExists
	}
	if emailTaken {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	_, err := repo.db.Exec(`
		INSERT INTO users (id, username, full_name, email, role, class, is_active, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		usr.ID, usr.Username, usr.FullName, usr.Email, usr.Role, usr.Class,
		usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Select(&rows, `SELECT * FROM users ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user by id")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `SELECT * FROM users WHERE username = $1`, username)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user by username")
	}
	return row.toUser(), nil
}

func (repo *userRepository) FilterUsers(filter user.QueryFilter) ([]user.User, error) {
	query := `SELECT * FROM users WHERE true`
	args := map[string]interface{}{}

	if filter.Search != "" {
		query += ` AND (username ILIKE :search OR email ILIKE :search OR full_name ILIKE :search)`
		args["search"] = "%" + filter.Search + "%"
	}
	if filter.Role != "" {
		query += ` AND role = :role`
		args["role"] = filter.Role
	}
	if filter.Class != "" {
		query += ` AND class = :class`
		args["class"] = filter.Class
	}
	if filter.IsActive != nil {
		query += ` AND is_active = :is_active`
		args["is_active"] = *filter.IsActive
	}
	query += ` ORDER BY created_at`

	stmt, err := repo.db.PrepareNamed(query)
	if err != nil {
		return nil, errors.Wrap(err, "preparing user filter")
	}
	defer stmt.Close()

	var rows []userRow
	if err := stmt.Select(&rows, args); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return toUsers(rows), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, `
		UPDATE users SET
			username      = COALESCE(NULLIF($2, ''), username),
			full_name     = COALESCE(NULLIF($3, ''), full_name),
			email         = COALESCE(NULLIF($4, ''), email),
			role          = COALESCE(NULLIF($5, ''), role),
			class         = COALESCE(NULLIF($6, ''), class),
			password_hash = COALESCE($7, password_hash),
			is_active     = COALESCE($8, is_active),
			updated_at    = COALESCE($9, updated_at),
			last_login    = COALESCE($10, last_login)
		WHERE id = $1
		RETURNING *`,
		usr.ID, usr.Username, usr.FullName, usr.Email, usr.Role, usr.Class,
		usr.PasswordHash, isActive, nullTime(usr.UpdatedAt), nullTime(usr.LastLogin),
	)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) DeleteUsersByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM users WHERE id = ANY($1)`, idArray(ids)); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
