package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvthanh/eduleave/core/user"
)

var (
	student = user.User{Username: "hs1", FullName: "Nguyen Van A", Role: user.RoleStudent, Class: "10A1"}
	admin   = user.User{Username: "admin", FullName: "The Admin", Role: user.RoleAdmin}
)

func sampleRequests() []LeaveRequest {
	return []LeaveRequest{
		{ID: "REQ-3", StudentName: "Tran Thi B", Class: "11A2", Week: 2, Status: StatusPending, CreatedBy: "gv1"},
		{ID: "REQ-2", StudentName: "Nguyen Van A", Class: "10A1", Week: 2, Status: StatusPending, CreatedBy: "hs1"},
		{ID: "REQ-1", StudentName: "Nguyen Van A", Class: "10A1", Week: 1, Status: StatusApproved, CreatedBy: "hs1"},
	}
}

func Test_QueryFilter_Matches(t *testing.T) {
	items := sampleRequests()

	tests := []struct {
		name   string
		filter QueryFilter
		actor  user.User
		want   []string // expected IDs, order preserved
	}{
		{name: "empty filter (admin)", actor: admin, want: []string{"REQ-3", "REQ-2", "REQ-1"}},
		{name: "search by name is case-insensitive", filter: QueryFilter{Search: "nguyen van"}, actor: admin, want: []string{"REQ-2", "REQ-1"}},
		{name: "search matches id", filter: QueryFilter{Search: "req-3"}, actor: admin, want: []string{"REQ-3"}},
		{name: "search (unknown)", filter: QueryFilter{Search: "nobody"}, actor: admin, want: []string{}},
		{name: "class exact", filter: QueryFilter{Class: "11A2"}, actor: admin, want: []string{"REQ-3"}},
		{name: "status exact", filter: QueryFilter{Status: StatusApproved}, actor: admin, want: []string{"REQ-1"}},
		{name: "week exact", filter: QueryFilter{Week: 2}, actor: admin, want: []string{"REQ-3", "REQ-2"}},
		{name: "ANDed fields", filter: QueryFilter{Class: "10A1", Week: 2}, actor: admin, want: []string{"REQ-2"}},
		{name: "students only see their own", actor: student, want: []string{"REQ-2", "REQ-1"}},
		{name: "student filter still applies", filter: QueryFilter{Status: StatusApproved}, actor: student, want: []string{"REQ-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(items, tt.filter, tt.actor)
			ids := make([]string, 0, len(got))
			for _, req := range got {
				ids = append(ids, req.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func Test_Paginate(t *testing.T) {
	items := sampleRequests()

	assert.Equal(t, items[:2], Paginate(items, 1, 2))
	assert.Equal(t, items[2:], Paginate(items, 2, 2))
	assert.Empty(t, Paginate(items, 3, 2))
	assert.Empty(t, Paginate(items, 0, 2))
	assert.Empty(t, Paginate(items, 1, 0))

	// concatenating all pages reproduces the list in order
	var all []LeaveRequest
	for page := 1; ; page++ {
		p := Paginate(items, page, 2)
		if len(p) == 0 {
			break
		}
		all = append(all, p...)
	}
	assert.Equal(t, items, all)
}

func Test_UpdateRequest_Apply(t *testing.T) {
	orig := LeaveRequest{
		ID: "REQ-1", StudentName: "Nguyen Van A", Class: "10A1", Week: 1,
		Reason: "Sick leave", FromDate: "2026-09-01", ToDate: "2026-09-02",
		Status: StatusPending, CreatedBy: "hs1",
	}

	// zero patch changes nothing
	assert.Equal(t, orig, UpdateRequest{}.Apply(orig))

	week := 3
	got := UpdateRequest{Week: &week, Reason: "Family matter", Status: StatusApproved, Approver: "The Admin"}.Apply(orig)
	assert.Equal(t, 3, got.Week)
	assert.Equal(t, "Family matter", got.Reason)
	assert.Equal(t, StatusApproved, got.Status)
	assert.Equal(t, "The Admin", got.Approver)
	// untouched fields survive
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.FromDate, got.FromDate)
	assert.Equal(t, orig.CreatedBy, got.CreatedBy)
}

func Test_NewRequest_Validate(t *testing.T) {
	nr := NewRequest{Week: 1, Reason: "Sick leave", FromDate: "2026-09-01", ToDate: "2026-09-02"}
	assert.NoError(t, nr.Validate())

	t.Run("missing required fields", func(t *testing.T) {
		bad := NewRequest{}
		assert.Error(t, bad.Validate())
	})

	t.Run("bad date format", func(t *testing.T) {
		bad := nr
		bad.FromDate = "01/09/2026"
		assert.Error(t, bad.Validate())
	})

	t.Run("fromDate after toDate is rejected", func(t *testing.T) {
		bad := nr
		bad.FromDate, bad.ToDate = "2026-09-03", "2026-09-02"
		assert.Error(t, bad.Validate())
	})

	t.Run("equal dates are fine", func(t *testing.T) {
		ok := nr
		ok.FromDate, ok.ToDate = "2026-09-02", "2026-09-02"
		assert.NoError(t, ok.Validate())
	})
}

func Test_UpdateRequest_Validate(t *testing.T) {
	// empty patch is a no-op, not an error
	ur := UpdateRequest{}
	assert.NoError(t, ur.Validate())

	t.Run("inverted range", func(t *testing.T) {
		bad := UpdateRequest{FromDate: "2026-09-05", ToDate: "2026-09-01"}
		assert.Error(t, bad.Validate())
	})

	t.Run("week below minimum", func(t *testing.T) {
		week := 0
		bad := UpdateRequest{Week: &week}
		assert.Error(t, bad.Validate())
	})
}

func Test_QueryFilter_Clean(t *testing.T) {
	qf := QueryFilter{Search: "  Nguyen  "}
	qf.Clean()
	assert.Equal(t, "Nguyen", qf.Search)
}
