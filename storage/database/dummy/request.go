package dummydb

import (
	"github.com/nvthanh/eduleave/core/request"
)

type requestRepository struct {
	db *requestTable
}

var _ request.Repository = (*requestRepository)(nil) // interface compliance check

func NewRequestRepository(db *DB) request.Repository {
	return &requestRepository{db: db.request}
}

func (repo *requestRepository) CreateRequest(req request.LeaveRequest) (request.LeaveRequest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// newest first
	repo.db.rows = append([]request.LeaveRequest{req}, repo.db.rows...)
	return req, nil
}

func (repo *requestRepository) QueryAllRequests() ([]request.LeaveRequest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]request.LeaveRequest, len(repo.db.rows))
	copy(rows, repo.db.rows)
	return rows, nil
}

func (repo *requestRepository) GetRequestByID(id string) (request.LeaveRequest, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, req := range repo.db.rows {
		if req.ID == id {
			return req, nil
		}
	}
	return request.LeaveRequest{}, request.ErrNotFound
}

func (repo *requestRepository) UpdateRequest(id string, patch request.UpdateRequest) (request.LeaveRequest, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, req := range repo.db.rows {
		if req.ID == id {
			repo.db.rows[i] = patch.Apply(req)
			return repo.db.rows[i], nil
		}
	}
	return request.LeaveRequest{}, request.ErrNotFound
}

func (repo *requestRepository) DeleteRequestsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		for i, req := range repo.db.rows {
			if req.ID == id {
				repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
				break
			}
		}
	}
	return nil
}
