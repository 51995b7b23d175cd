package request

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotEditable       = errors.New("request is no longer editable")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Event actions broadcast to watchers.
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status"
)

type (
	// Event notifies watchers of a store mutation.
	Event struct {
		Action  string       `json:"action"`
		Request LeaveRequest `json:"request"`
	}

	// Broadcaster fans an Event out to connected watchers.
	Broadcaster interface {
		Broadcast(evt Event)
	}

	Repository interface {
		CreateRequest(req LeaveRequest) (LeaveRequest, error)
		// QueryAllRequests returns requests newest-first.
		QueryAllRequests() ([]LeaveRequest, error)
		GetRequestByID(id string) (LeaveRequest, error)
		UpdateRequest(id string, patch UpdateRequest) (LeaveRequest, error)
		DeleteRequestsByID(ids ...string) error
	}

	Service interface {
		Create(nr NewRequest, actor user.User) (LeaveRequest, error)
		Query(filter QueryFilter, actor user.User) ([]LeaveRequest, error)
		GetByID(id string) (LeaveRequest, error)
		Update(id string, patch UpdateRequest, actor user.User) (LeaveRequest, error)
		ChangeStatus(id string, newStatus Status, actor user.User) (LeaveRequest, error)
		Delete(id string, actor user.User) error
	}

	service struct {
		repo    Repository
		usrSvc  user.Service
		mailSvc core.EmailService
		bcast   Broadcaster
	}
)

var _ Service = (*service)(nil)

// NewService wires the leave request business service.
// mailSvc and bcast may be nil; notifications are then skipped.
func NewService(repo Repository, usrSvc user.Service, mailSvc core.EmailService, bcast Broadcaster) Service {
	return &service{repo: repo, usrSvc: usrSvc, mailSvc: mailSvc, bcast: bcast}
}

func (svc *service) Create(nr NewRequest, actor user.User) (LeaveRequest, error) {
	if !actor.Permissions().CanCreate {
		return LeaveRequest{}, ErrPermissionDenied
	}
	if err := nr.Validate(); err != nil {
		return LeaveRequest{}, err
	}

	req := LeaveRequest{
		ID:            "REQ-" + uuid.New().String(),
		StudentName:   nr.StudentName,
		Class:         nr.Class,
		Week:          nr.Week,
		Reason:        nr.Reason,
		Detail:        nr.Detail,
		FromDate:      nr.FromDate,
		ToDate:        nr.ToDate,
		AttachmentURL: nr.AttachmentURL,
		Status:        StatusPending,
		CreatedBy:     actor.Username,
		CreatedAt:     time.Now().UTC(),
	}
	// students always file for themselves
	if actor.IsStudent() {
		req.StudentName = actor.FullName
		req.Class = actor.Class
	} else if req.StudentName == "" {
		req.StudentName = "Unknown"
	}

	req, err := svc.repo.CreateRequest(req)
	if err != nil {
		return LeaveRequest{}, err
	}
	svc.broadcast(ActionCreated, req)
	return req, nil
}

func (svc *service) Query(filter QueryFilter, actor user.User) ([]LeaveRequest, error) {
	items, err := svc.repo.QueryAllRequests()
	if err != nil {
		return nil, err
	}
	filter.Clean()
	return ApplyFilter(items, filter, actor), nil
}

func (svc *service) GetByID(id string) (LeaveRequest, error) {
	return svc.repo.GetRequestByID(id)
}

func (svc *service) Update(id string, patch UpdateRequest, actor user.User) (LeaveRequest, error) {
	orig, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if orig.CreatedBy != actor.Username && !actor.IsAdmin() {
		return LeaveRequest{}, ErrPermissionDenied
	}
	if orig.Status != StatusPending {
		return LeaveRequest{}, ErrNotEditable
	}

	// status changes go through ChangeStatus
	patch.Status = ""
	patch.Approver = ""
	if err := patch.Validate(); err != nil {
		return LeaveRequest{}, err
	}
	// an edit must not invert the stored date range either
	merged := patch.Apply(orig)
	rangeCheck := UpdateRequest{FromDate: merged.FromDate, ToDate: merged.ToDate}
	if err := rangeCheck.Validate(); err != nil {
		return LeaveRequest{}, err
	}

	req, err := svc.repo.UpdateRequest(id, patch)
	if err != nil {
		return LeaveRequest{}, err
	}
	svc.broadcast(ActionUpdated, req)
	return req, nil
}

func (svc *service) ChangeStatus(id string, newStatus Status, actor user.User) (LeaveRequest, error) {
	if !actor.Permissions().CanApprove {
		return LeaveRequest{}, ErrPermissionDenied
	}
	if newStatus != StatusApproved && newStatus != StatusRejected {
		return LeaveRequest{}, ErrInvalidTransition
	}
	orig, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if orig.Status != StatusPending {
		return LeaveRequest{}, ErrInvalidTransition
	}

	req, err := svc.repo.UpdateRequest(id, UpdateRequest{
		Status:   newStatus,
		Approver: actor.DisplayName(),
	})
	if err != nil {
		return LeaveRequest{}, err
	}
	svc.notifyCreator(req)
	svc.broadcast(ActionStatusChanged, req)
	return req, nil
}

func (svc *service) Delete(id string, actor user.User) error {
	if !actor.Permissions().CanDelete {
		return ErrPermissionDenied
	}
	req, err := svc.repo.GetRequestByID(id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteRequestsByID(id); err != nil {
		return err
	}
	svc.broadcast(ActionDeleted, req)
	return nil
}

func (svc *service) broadcast(action string, req LeaveRequest) {
	if svc.bcast != nil {
		svc.bcast.Broadcast(Event{Action: action, Request: req})
	}
}

// notifyCreator emails the request's creator about the decision.
func (svc *service) notifyCreator(req LeaveRequest) {
	if svc.mailSvc == nil || svc.usrSvc == nil {
		return
	}
	creator, err := svc.usrSvc.GetByUsername(req.CreatedBy)
	if err != nil || creator.Email == "" {
		return
	}
	verdict := "approved"
	if req.Status == StatusRejected {
		verdict = "rejected"
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: creator.FullName, Address: creator.Email}},
		Subject: "Leave request " + verdict,
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\nThe leave request for %s (%s - %s) has been %s by %s.\r\n",
			creator.DisplayName(), req.StudentName, req.FromDate, req.ToDate, verdict, req.Approver,
		),
	})
}
