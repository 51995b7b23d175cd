package client

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

// MockGateway is an in-process gateway with canned demo data, used when no
// server is configured (demo mode) and by the store tests. Setting Err makes
// every subsequent call fail with it, mimicking a remote outage.
type MockGateway struct {
	mu       sync.Mutex
	seq      int
	Err      error
	AsUser   string // stamped as CreatedBy on created requests
	Users    []user.User
	Requests []request.LeaveRequest
	Config   settings.Settings
}

var _ Gateway = (*MockGateway)(nil)

func NewMockGateway() *MockGateway {
	today := func(offsetDays int) string {
		return time.Now().AddDate(0, 0, offsetDays).Format(request.DateLayout)
	}
	users := []user.User{
		{ID: "u1", Username: "admin", FullName: "Demo Administrator", Role: user.RoleAdmin, IsActive: true},
		{ID: "u2", Username: "hs1", FullName: "Nguyen Van A", Role: user.RoleStudent, Class: "10A1", IsActive: true},
		{ID: "u3", Username: "gv1", FullName: "Homeroom 10A1", Role: user.RoleHomeroom, Class: "10A1", IsActive: true},
	}
	requests := []request.LeaveRequest{
		{
			ID: "demo2", StudentName: "Tran Thi B", Class: "11A2", Week: 1,
			Reason: "Family matter", FromDate: today(1), ToDate: today(1),
			Status: request.StatusPending, CreatedBy: "gv1", CreatedAt: time.Now().UTC(),
		},
		{
			ID: "demo1", StudentName: "Nguyen Van A", Class: "10A1", Week: 1,
			Reason: "Sick leave", FromDate: today(-1), ToDate: today(0),
			Status: request.StatusApproved, CreatedBy: "hs1", CreatedAt: time.Now().UTC(),
			Approver: "Demo Administrator",
		},
	}
	return &MockGateway{
		Users:    users,
		Requests: requests,
		Config: settings.Settings{
			SchoolName:  "Demo School",
			Classes:     []string{"10A1", "10A2", "11A1"},
			Reasons:     []string{"Sick leave", "Family matter"},
			CurrentWeek: 1,
		},
	}
}

func (gw *MockGateway) fail() error {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return gw.Err
}

// userByUsername must be called with gw.mu held.
func (gw *MockGateway) userByUsername(username string) (user.User, bool) {
	for _, usr := range gw.Users {
		if usr.Username == username {
			return usr, true
		}
	}
	return user.User{}, false
}

func (gw *MockGateway) Login(_ context.Context, username, _ string) (user.User, error) {
	if err := gw.fail(); err != nil {
		return user.User{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for _, usr := range gw.Users {
		if usr.Username == username {
			gw.AsUser = usr.Username
			return usr, nil
		}
	}
	return user.User{}, &RemoteError{StatusCode: 400, Message: "wrong username or password"}
}

func (gw *MockGateway) Register(_ context.Context, nu user.NewUser) (user.User, error) {
	if err := gw.fail(); err != nil {
		return user.User{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.seq++
	usr := user.User{
		ID:       fmt.Sprintf("mock-u%d", gw.seq),
		Username: nu.Username,
		FullName: nu.FullName,
		Email:    nu.Email,
		Role:     nu.Role,
		Class:    nu.Class,
		IsActive: true,
	}
	gw.Users = append(gw.Users, usr)
	return usr, nil
}

func (gw *MockGateway) LoadAll(_ context.Context) (Bootstrap, error) {
	if err := gw.fail(); err != nil {
		return Bootstrap{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	boot := Bootstrap{
		Users:    append([]user.User(nil), gw.Users...),
		Requests: append([]request.LeaveRequest(nil), gw.Requests...),
		Config:   gw.Config,
	}
	return boot, nil
}

func (gw *MockGateway) GetSettings(_ context.Context) (settings.Settings, error) {
	if err := gw.fail(); err != nil {
		return settings.Settings{}, err
	}
	return gw.Config, nil
}

func (gw *MockGateway) SaveSettings(_ context.Context, us settings.UpdateSettings) (settings.Settings, error) {
	if err := gw.fail(); err != nil {
		return settings.Settings{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.Config = settings.Settings{
		SchoolName:  us.SchoolName,
		Classes:     us.Classes,
		Reasons:     us.Reasons,
		CurrentWeek: us.CurrentWeek,
	}
	return gw.Config, nil
}

func (gw *MockGateway) CreateRequest(_ context.Context, nr request.NewRequest) (request.LeaveRequest, error) {
	if err := gw.fail(); err != nil {
		return request.LeaveRequest{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.seq++
	req := request.LeaveRequest{
		ID:            fmt.Sprintf("mock-%d", gw.seq),
		StudentName:   nr.StudentName,
		Class:         nr.Class,
		Week:          nr.Week,
		Reason:        nr.Reason,
		Detail:        nr.Detail,
		FromDate:      nr.FromDate,
		ToDate:        nr.ToDate,
		AttachmentURL: nr.AttachmentURL,
		Status:        request.StatusPending,
		CreatedBy:     gw.AsUser,
		CreatedAt:     time.Now().UTC(),
	}
	// same record shaping as the server: students always file for themselves
	if actor, ok := gw.userByUsername(gw.AsUser); ok && actor.IsStudent() {
		req.StudentName = actor.FullName
		req.Class = actor.Class
	} else if req.StudentName == "" {
		req.StudentName = "Unknown"
	}
	gw.Requests = append([]request.LeaveRequest{req}, gw.Requests...)
	return req, nil
}

func (gw *MockGateway) UpdateRequest(_ context.Context, id string, patch request.UpdateRequest) (request.LeaveRequest, error) {
	if err := gw.fail(); err != nil {
		return request.LeaveRequest{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for i, req := range gw.Requests {
		if req.ID == id {
			gw.Requests[i] = patch.Apply(req)
			return gw.Requests[i], nil
		}
	}
	return request.LeaveRequest{}, &RemoteError{StatusCode: 404, Message: "not found"}
}

func (gw *MockGateway) DeleteRequest(_ context.Context, id string) error {
	if err := gw.fail(); err != nil {
		return err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for i, req := range gw.Requests {
		if req.ID == id {
			gw.Requests = append(gw.Requests[:i], gw.Requests[i+1:]...)
			return nil
		}
	}
	return &RemoteError{StatusCode: 404, Message: "not found"}
}

func (gw *MockGateway) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	return gw.Register(ctx, nu)
}

func (gw *MockGateway) UpdateUser(_ context.Context, id string, uu user.UpdateUser) (user.User, error) {
	if err := gw.fail(); err != nil {
		return user.User{}, err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for i, usr := range gw.Users {
		if usr.ID == id {
			if uu.FullName != "" {
				usr.FullName = uu.FullName
			}
			if uu.Username != "" {
				usr.Username = uu.Username
			}
			if uu.Email != "" {
				usr.Email = uu.Email
			}
			if uu.Role != "" {
				usr.Role = uu.Role
			}
			if uu.Class != "" {
				usr.Class = uu.Class
			}
			if uu.IsActive != nil {
				usr.IsActive = *uu.IsActive
			}
			gw.Users[i] = usr
			return usr, nil
		}
	}
	return user.User{}, &RemoteError{StatusCode: 404, Message: "not found"}
}

func (gw *MockGateway) DeleteUser(_ context.Context, id string) error {
	if err := gw.fail(); err != nil {
		return err
	}
	gw.mu.Lock()
	defer gw.mu.Unlock()
	for i, usr := range gw.Users {
		if usr.ID == id {
			gw.Users = append(gw.Users[:i], gw.Users[i+1:]...)
			return nil
		}
	}
	return &RemoteError{StatusCode: 404, Message: "not found"}
}

func (gw *MockGateway) UploadFile(_ context.Context, filename string, src io.Reader) (string, error) {
	if err := gw.fail(); err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, src)
	return "https://via.placeholder.com/150?text=" + filename, nil
}
