package client

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/user"
)

// Notifier surfaces user-facing messages (the UI alert seam).
type Notifier func(msg string)

// RequestStore holds the local, newest-first list of leave requests and keeps
// it in sync with the gateway through optimistic mutations: every change is
// applied locally first, then confirmed or rolled back against the remote
// verdict. No retries; a failed mutation restores the pre-mutation list
// exactly and notifies.
type RequestStore struct {
	mu     sync.Mutex
	gw     Gateway
	actor  user.User
	items  []request.LeaveRequest
	notify Notifier

	now func() time.Time
}

func NewRequestStore(gw Gateway, actor user.User, notify Notifier) *RequestStore {
	if notify == nil {
		notify = func(string) {}
	}
	return &RequestStore{gw: gw, actor: actor, notify: notify, now: time.Now}
}

// Load replaces the local list with the remote one.
func (s *RequestStore) Load(ctx context.Context) error {
	boot, err := s.gw.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = boot.Requests
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current list, newest first.
func (s *RequestStore) Items() []request.LeaveRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]request.LeaveRequest, len(s.items))
	copy(items, s.items)
	return items
}

// Get returns the stored request with the given id.
func (s *RequestStore) Get(id string) (request.LeaveRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.items {
		if req.ID == id {
			return req, true
		}
	}
	return request.LeaveRequest{}, false
}

// mutate is the single optimistic-update path: snapshot, apply locally,
// issue the remote call, then confirm (adopt the authoritative record) or
// restore the snapshot and notify.
func (s *RequestStore) mutate(
	ctx context.Context,
	apply func(items []request.LeaveRequest) []request.LeaveRequest,
	remote func(ctx context.Context) (confirm func(items []request.LeaveRequest) []request.LeaveRequest, err error),
	failMsg string,
) error {
	s.mu.Lock()
	snapshot := make([]request.LeaveRequest, len(s.items))
	copy(snapshot, s.items)
	s.items = apply(s.items)
	s.mu.Unlock()

	confirm, err := remote(ctx)
	if err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.mu.Unlock()
		s.notify(failMsg)
		return err
	}
	if confirm != nil {
		s.mu.Lock()
		s.items = confirm(s.items)
		s.mu.Unlock()
	}
	return nil
}

// Create validates required fields, prepends a temporary record and swaps it
// for the server's authoritative one once confirmed. On failure the temporary
// record is evicted.
func (s *RequestStore) Create(ctx context.Context, nr request.NewRequest) error {
	if err := checkRequired(nr, s.actor); err != nil {
		return err
	}

	temp := request.LeaveRequest{
		ID:            tempID(s.now()),
		StudentName:   nr.StudentName,
		Class:         nr.Class,
		Week:          nr.Week,
		Reason:        nr.Reason,
		Detail:        nr.Detail,
		FromDate:      nr.FromDate,
		ToDate:        nr.ToDate,
		AttachmentURL: nr.AttachmentURL,
		Status:        request.StatusPending,
		CreatedBy:     s.actor.Username,
		CreatedAt:     s.now().UTC(),
	}
	if s.actor.IsStudent() {
		temp.StudentName = s.actor.FullName
		temp.Class = s.actor.Class
	} else if temp.StudentName == "" {
		temp.StudentName = "Unknown"
	}

	return s.mutate(ctx,
		func(items []request.LeaveRequest) []request.LeaveRequest {
			return append([]request.LeaveRequest{temp}, items...)
		},
		func(ctx context.Context) (func([]request.LeaveRequest) []request.LeaveRequest, error) {
			created, err := s.gw.CreateRequest(ctx, nr)
			if err != nil {
				return nil, err
			}
			return replaceByID(temp.ID, created), nil
		},
		"Could not submit the leave request. Please try again.",
	)
}

// Update shallow-merges the patch into the stored record, then adopts the
// server's record. On failure the snapshot is restored byte for byte.
func (s *RequestStore) Update(ctx context.Context, id string, patch request.UpdateRequest) error {
	return s.mutate(ctx,
		func(items []request.LeaveRequest) []request.LeaveRequest {
			return patchByID(items, id, patch)
		},
		func(ctx context.Context) (func([]request.LeaveRequest) []request.LeaveRequest, error) {
			updated, err := s.gw.UpdateRequest(ctx, id, patch)
			if err != nil {
				return nil, err
			}
			return replaceByID(id, updated), nil
		},
		"Could not save the changes. The request was restored.",
	)
}

// Delete removes the record locally, restoring it if the remote delete fails.
func (s *RequestStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx,
		func(items []request.LeaveRequest) []request.LeaveRequest {
			return removeByID(items, id)
		},
		func(ctx context.Context) (func([]request.LeaveRequest) []request.LeaveRequest, error) {
			return nil, s.gw.DeleteRequest(ctx, id)
		},
		"Could not delete the request. It was restored.",
	)
}

// ChangeStatus applies the decision locally (status + approver), then sends
// the same patch remotely. The approver is the actor's full name, or the
// username when the profile has none.
func (s *RequestStore) ChangeStatus(ctx context.Context, id string, status request.Status) error {
	patch := request.UpdateRequest{
		Status:   status,
		Approver: s.actor.DisplayName(),
	}
	return s.mutate(ctx,
		func(items []request.LeaveRequest) []request.LeaveRequest {
			return patchByID(items, id, patch)
		},
		func(ctx context.Context) (func([]request.LeaveRequest) []request.LeaveRequest, error) {
			updated, err := s.gw.UpdateRequest(ctx, id, patch)
			if err != nil {
				return nil, err
			}
			return replaceByID(id, updated), nil
		},
		"Could not update the request status. It was restored.",
	)
}

func tempID(now time.Time) string {
	return "TEMP-" + strconv.FormatInt(now.UnixNano()/int64(time.Millisecond), 10)
}

// checkRequired mirrors the submission form's required-field checks. Date
// ordering is left to the gateway's verdict.
func checkRequired(nr request.NewRequest, actor user.User) error {
	var fields []core.FieldError
	if nr.Week < 1 {
		fields = append(fields, core.FieldError{Field: "week", Error: "week is required"})
	}
	if nr.Reason == "" {
		fields = append(fields, core.FieldError{Field: "reason", Error: "reason is required"})
	}
	if nr.FromDate == "" {
		fields = append(fields, core.FieldError{Field: "fromDate", Error: "fromDate is required"})
	}
	if nr.ToDate == "" {
		fields = append(fields, core.FieldError{Field: "toDate", Error: "toDate is required"})
	}
	if !actor.IsStudent() {
		if nr.StudentName == "" {
			fields = append(fields, core.FieldError{Field: "studentName", Error: "studentName is required"})
		}
		if nr.Class == "" {
			fields = append(fields, core.FieldError{Field: "class", Error: "class is required"})
		}
	}
	if len(fields) > 0 {
		return core.NewValidationError(errors.New("missing required fields"), fields...)
	}
	return nil
}

func replaceByID(id string, rec request.LeaveRequest) func([]request.LeaveRequest) []request.LeaveRequest {
	return func(items []request.LeaveRequest) []request.LeaveRequest {
		for i, req := range items {
			if req.ID == id {
				items[i] = rec
				break
			}
		}
		return items
	}
}

func patchByID(items []request.LeaveRequest, id string, patch request.UpdateRequest) []request.LeaveRequest {
	for i, req := range items {
		if req.ID == id {
			items[i] = patch.Apply(req)
			break
		}
	}
	return items
}

func removeByID(items []request.LeaveRequest, id string) []request.LeaveRequest {
	out := items[:0]
	for _, req := range items {
		if req.ID != id {
			out = append(out, req)
		}
	}
	return out
}
