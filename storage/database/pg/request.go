package pgdb

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/request"
)

type requestRepository struct {
	db *sqlx.DB
}

var _ request.Repository = (*requestRepository)(nil) // interface compliance check

func NewRequestRepository(db *sqlx.DB) request.Repository {
	return &requestRepository{db: db}
}

type requestRow struct {
	ID            string    `db:"id"`
	StudentName   string    `db:"student_name"`
	Class         string    `db:"class"`
	Week          int       `db:"week"`
	Reason        string    `db:"reason"`
	Detail        string    `db:"detail"`
	FromDate      string    `db:"from_date"`
	ToDate        string    `db:"to_date"`
	AttachmentURL string    `db:"attachment_url"`
	Status        string    `db:"status"`
	CreatedBy     string    `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
	Approver      string    `db:"approver"`
}

func (row requestRow) toRequest() request.LeaveRequest {
	return request.LeaveRequest{
		ID:            row.ID,
		StudentName:   row.StudentName,
		Class:         row.Class,
		Week:          row.Week,
		Reason:        row.Reason,
		Detail:        row.Detail,
		FromDate:      row.FromDate,
		ToDate:        row.ToDate,
		AttachmentURL: row.AttachmentURL,
		Status:        request.Status(row.Status),
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt,
		Approver:      row.Approver,
	}
}

func (repo *requestRepository) CreateRequest(req request.LeaveRequest) (request.LeaveRequest, error) {
	_, err := repo.db.Exec(`
		INSERT INTO leave_requests
			(id, student_name, class, week, reason, detail, from_date, to_date, attachment_url, status, created_by, created_at, approver)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		req.ID, req.StudentName, req.Class, req.Week, req.Reason, req.Detail,
		req.FromDate, req.ToDate, req.AttachmentURL, string(req.Status),
		req.CreatedBy, req.CreatedAt, req.Approver,
	)
	if err != nil {
		return request.LeaveRequest{}, errors.Wrap(err, "inserting leave request")
	}
	return req, nil
}

func (repo *requestRepository) QueryAllRequests() ([]request.LeaveRequest, error) {
	var rows []requestRow
	err := repo.db.Select(&rows, `SELECT * FROM leave_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying leave requests")
	}
	reqs := make([]request.LeaveRequest, len(rows))
	for i, row := range rows {
		reqs[i] = row.toRequest()
	}
	return reqs, nil
}

func (repo *requestRepository) GetRequestByID(id string) (request.LeaveRequest, error) {
	var row requestRow
	err := repo.db.Get(&row, `SELECT * FROM leave_requests WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return request.LeaveRequest{}, request.ErrNotFound
	}
	if err != nil {
		return request.LeaveRequest{}, errors.Wrap(err, "getting leave request")
	}
	return row.toRequest(), nil
}

func (repo *requestRepository) UpdateRequest(id string, patch request.UpdateRequest) (request.LeaveRequest, error) {
	var week interface{}
	if patch.Week != nil {
		week = *patch.Week
	}

	var row requestRow
	err := repo.db.Get(&row, `
		UPDATE leave_requests SET
			student_name   = COALESCE(NULLIF($2, ''), student_name),
			class          = COALESCE(NULLIF($3, ''), class),
			week           = COALESCE($4, week),
			reason         = COALESCE(NULLIF($5, ''), reason),
			detail         = COALESCE(NULLIF($6, ''), detail),
			from_date      = COALESCE(NULLIF($7, ''), from_date),
			to_date        = COALESCE(NULLIF($8, ''), to_date),
			attachment_url = COALESCE(NULLIF($9, ''), attachment_url),
			status         = COALESCE(NULLIF($10, ''), status),
			approver       = COALESCE(NULLIF($11, ''), approver)
		WHERE id = $1
		RETURNING *`,
		id, patch.StudentName, patch.Class, week, patch.Reason, patch.Detail,
		patch.FromDate, patch.ToDate, patch.AttachmentURL, string(patch.Status), patch.Approver,
	)
	if err == sql.ErrNoRows {
		return request.LeaveRequest{}, request.ErrNotFound
	}
	if err != nil {
		return request.LeaveRequest{}, errors.Wrap(err, "updating leave request")
	}
	return row.toRequest(), nil
}

func (repo *requestRepository) DeleteRequestsByID(ids ...string) error {
	if _, err := repo.db.Exec(`DELETE FROM leave_requests WHERE id = ANY($1)`, idArray(ids)); err != nil {
		return errors.Wrap(err, "deleting leave requests")
	}
	return nil
}
