package client

import (
	"context"
	"io"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

// Bootstrap is the initial payload loaded right after login.
// Users is only populated for admin sessions.
type Bootstrap struct {
	Users    []user.User            `json:"users,omitempty"`
	Requests []request.LeaveRequest `json:"requests"`
	Config   settings.Settings      `json:"config"`
}

// Gateway is the remote data source. Implementations return the authoritative
// record on success; any error is terminal for the operation (no retries).
type Gateway interface {
	Login(ctx context.Context, username, password string) (user.User, error)
	Register(ctx context.Context, nu user.NewUser) (user.User, error)
	LoadAll(ctx context.Context) (Bootstrap, error)

	GetSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, us settings.UpdateSettings) (settings.Settings, error)

	CreateRequest(ctx context.Context, nr request.NewRequest) (request.LeaveRequest, error)
	UpdateRequest(ctx context.Context, id string, patch request.UpdateRequest) (request.LeaveRequest, error)
	DeleteRequest(ctx context.Context, id string) error

	CreateUser(ctx context.Context, nu user.NewUser) (user.User, error)
	UpdateUser(ctx context.Context, id string, uu user.UpdateUser) (user.User, error)
	DeleteUser(ctx context.Context, id string) error

	UploadFile(ctx context.Context, filename string, src io.Reader) (url string, err error)
}
