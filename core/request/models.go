package request

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

// DateLayout is the wire format for leave dates.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

var AllStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// LeaveRequest is a student absence request.
// Dates are YYYY-MM-DD strings, matching the backing store.
type LeaveRequest struct {
	ID            string    `json:"id"`
	StudentName   string    `json:"studentName"`
	Class         string    `json:"class"`
	Week          int       `json:"week"`
	Reason        string    `json:"reason"`
	Detail        string    `json:"detail,omitempty"`
	FromDate      string    `json:"fromDate"`
	ToDate        string    `json:"toDate"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	Status        Status    `json:"status"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"` // UTC
	Approver      string    `json:"approver,omitempty"`
}

// NewRequest contains information needed to create a new LeaveRequest.
// StudentName and Class are ignored for student actors; their own profile
// values are used instead.
type NewRequest struct {
	StudentName   string `json:"studentName"`
	Class         string `json:"class"`
	Week          int    `json:"week" validate:"required,min=1"`
	Reason        string `json:"reason" validate:"required"`
	Detail        string `json:"detail"`
	FromDate      string `json:"fromDate" validate:"required,datetime=2006-01-02"`
	ToDate        string `json:"toDate" validate:"required,datetime=2006-01-02"`
	AttachmentURL string `json:"attachmentUrl"`
}

func (nr *NewRequest) Validate() error {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Class = core.CleanString(nr.Class)
	nr.Reason = core.CleanString(nr.Reason)
	return core.Validate.Struct(nr)
}

// UpdateRequest defines the patch applied to an existing LeaveRequest.
// Zero-valued fields keep their original values (shallow merge).
type UpdateRequest struct {
	StudentName   string `json:"studentName"`
	Class         string `json:"class"`
	Week          *int   `json:"week" validate:"omitempty,min=1"`
	Reason        string `json:"reason"`
	Detail        string `json:"detail"`
	FromDate      string `json:"fromDate" validate:"omitempty,datetime=2006-01-02"`
	ToDate        string `json:"toDate" validate:"omitempty,datetime=2006-01-02"`
	AttachmentURL string `json:"attachmentUrl"`
	Status        Status `json:"status,omitempty"`
	Approver      string `json:"approver,omitempty"`
}

func (ur *UpdateRequest) Validate() error {
	ur.StudentName = core.CleanString(ur.StudentName)
	ur.Class = core.CleanString(ur.Class)
	ur.Reason = core.CleanString(ur.Reason)
	return core.Validate.Struct(ur)
}

// Apply merges the patch into req, shallow-merge style.
func (ur UpdateRequest) Apply(req LeaveRequest) LeaveRequest {
	if ur.StudentName != "" {
		req.StudentName = ur.StudentName
	}
	if ur.Class != "" {
		req.Class = ur.Class
	}
	if ur.Week != nil {
		req.Week = *ur.Week
	}
	if ur.Reason != "" {
		req.Reason = ur.Reason
	}
	if ur.Detail != "" {
		req.Detail = ur.Detail
	}
	if ur.FromDate != "" {
		req.FromDate = ur.FromDate
	}
	if ur.ToDate != "" {
		req.ToDate = ur.ToDate
	}
	if ur.AttachmentURL != "" {
		req.AttachmentURL = ur.AttachmentURL
	}
	if ur.Status != "" {
		req.Status = ur.Status
	}
	if ur.Approver != "" {
		req.Approver = ur.Approver
	}
	return req
}

// QueryFilter narrows the visible request list. All set fields are ANDed.
type QueryFilter struct {
	Search string `query:"search"`
	Class  string `query:"class"`
	Status Status `query:"status"`
	Week   int    `query:"week"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// Matches reports whether req passes the filter for the acting user.
// Search is a case-insensitive substring match on StudentName or ID.
// Students only ever see their own requests.
func (qf QueryFilter) Matches(req LeaveRequest, actor user.User) bool {
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !strings.Contains(strings.ToLower(req.StudentName), search) &&
			!strings.Contains(strings.ToLower(req.ID), search) {
			return false
		}
	}
	if qf.Class != "" && req.Class != qf.Class {
		return false
	}
	if qf.Status != "" && req.Status != qf.Status {
		return false
	}
	if qf.Week != 0 && req.Week != qf.Week {
		return false
	}
	if actor.IsStudent() && req.CreatedBy != actor.Username {
		return false
	}
	return true
}

// ApplyFilter derives the filtered view of items, preserving order.
func ApplyFilter(items []LeaveRequest, filter QueryFilter, actor user.User) []LeaveRequest {
	filtered := make([]LeaveRequest, 0, len(items))
	for _, req := range items {
		if filter.Matches(req, actor) {
			filtered = append(filtered, req)
		}
	}
	return filtered
}

// Paginate returns the 1-based page of the given size. Pages beyond the end
// are empty; concatenating all pages reproduces items in order.
func Paginate(items []LeaveRequest, page, size int) []LeaveRequest {
	if page < 1 || size < 1 {
		return []LeaveRequest{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []LeaveRequest{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

var (
	dateRangeTag  = "daterange"
	dateRangeText = "fromDate must not be after toDate"
)

func init() {
	core.Validate.RegisterStructValidation(requestStructValidation, NewRequest{})
	core.Validate.RegisterStructValidation(requestStructValidation, UpdateRequest{})
	core.RegisterCustomTranslation(dateRangeTag, dateRangeText)
}

// requestStructValidation rejects inverted date ranges.
func requestStructValidation(sl validator.StructLevel) {
	var from, to string
	switch req := sl.Current().Interface().(type) {
	case NewRequest:
		from, to = req.FromDate, req.ToDate
	case UpdateRequest:
		from, to = req.FromDate, req.ToDate
	}
	if from == "" || to == "" {
		return
	}
	fromDate, err1 := time.Parse(DateLayout, from)
	toDate, err2 := time.Parse(DateLayout, to)
	if err1 != nil || err2 != nil {
		return // format errors are reported by the datetime tag
	}
	if fromDate.After(toDate) {
		sl.ReportError(to, "toDate", "ToDate", dateRangeTag, "")
	}
}
