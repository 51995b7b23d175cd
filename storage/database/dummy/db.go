package dummydb

import (
	"sync"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

// DB is an in-memory stand-in for the backing store, used in demo mode and tests.
type (
	DB struct {
		user     *userTable
		request  *requestTable
		settings *settingsTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	// requests keep insertion order, newest first
	requestTable struct {
		sync.RWMutex
		rows []request.LeaveRequest
	}

	settingsTable struct {
		sync.RWMutex
		conf *settings.Settings
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		request:  &requestTable{},
		settings: &settingsTable{},
	}
	return db, nil
}
