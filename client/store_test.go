package client

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/user"
)

var (
	studentUsr = user.User{ID: "u2", Username: "hs1", FullName: "Nguyen Van A", Role: user.RoleStudent, Class: "10A1"}
	adminUsr   = user.User{ID: "u1", Username: "admin", FullName: "Demo Administrator", Role: user.RoleAdmin}

	errRemoteDown = errors.New("remote unavailable")
)

func newStore(t *testing.T, actor user.User) (*RequestStore, *MockGateway, *[]string) {
	t.Helper()
	gw := NewMockGateway()
	gw.AsUser = actor.Username

	var alerts []string
	store := NewRequestStore(gw, actor, func(msg string) { alerts = append(alerts, msg) })
	require.NoError(t, store.Load(context.Background()))
	return store, gw, &alerts
}

func validNewRequest() request.NewRequest {
	return request.NewRequest{
		StudentName: "Tran Thi B",
		Class:       "11A2",
		Week:        2,
		Reason:      "Sick leave",
		FromDate:    "2026-09-01",
		ToDate:      "2026-09-02",
	}
}

func Test_RequestStore_Create(t *testing.T) {
	t.Run("success swaps the temp record for the authoritative one", func(t *testing.T) {
		store, _, alerts := newStore(t, studentUsr)
		before := store.Items()

		require.NoError(t, store.Create(context.Background(), validNewRequest()))

		items := store.Items()
		require.Len(t, items, len(before)+1)
		// new record is prepended and carries a server id
		assert.False(t, strings.HasPrefix(items[0].ID, "TEMP-"))
		assert.Equal(t, request.StatusPending, items[0].Status)
		assert.Equal(t, "hs1", items[0].CreatedBy)
		// the confirmed record keeps the profile values, not the submitted ones
		assert.Equal(t, "Nguyen Van A", items[0].StudentName)
		assert.Equal(t, "10A1", items[0].Class)
		assert.Empty(t, *alerts)
	})

	t.Run("failure evicts the temp record", func(t *testing.T) {
		store, gw, alerts := newStore(t, studentUsr)
		before := store.Items()
		gw.Err = errRemoteDown

		err := store.Create(context.Background(), validNewRequest())
		assert.Equal(t, errRemoteDown, errors.Cause(err))

		assert.Equal(t, before, store.Items())
		require.Len(t, *alerts, 1)
		assert.Contains(t, (*alerts)[0], "Could not submit")
	})

	t.Run("missing required fields never reach the gateway", func(t *testing.T) {
		store, gw, alerts := newStore(t, adminUsr)
		gw.Err = errRemoteDown // would fail loudly if called

		err := store.Create(context.Background(), request.NewRequest{})
		require.Error(t, err)
		assert.Empty(t, *alerts)
		assert.Equal(t, 2, len(store.Items())) // demo data untouched
	})

	t.Run("students submit without name and class", func(t *testing.T) {
		store, _, alerts := newStore(t, studentUsr)
		nr := validNewRequest()
		nr.StudentName, nr.Class = "", "" // auto-filled from the profile

		require.NoError(t, store.Create(context.Background(), nr))
		assert.Empty(t, *alerts)
	})

	t.Run("staff must name the student", func(t *testing.T) {
		store, _, _ := newStore(t, adminUsr)
		nr := validNewRequest()
		nr.StudentName = ""

		err := store.Create(context.Background(), nr)
		require.Error(t, err)
	})
}

func Test_RequestStore_Update(t *testing.T) {
	t.Run("success merges and adopts the server record", func(t *testing.T) {
		store, _, alerts := newStore(t, adminUsr)
		id := store.Items()[0].ID

		require.NoError(t, store.Update(context.Background(), id, request.UpdateRequest{Reason: "Checkup"}))

		got, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Checkup", got.Reason)
		assert.Empty(t, *alerts)
	})

	t.Run("failure restores the snapshot exactly", func(t *testing.T) {
		store, gw, alerts := newStore(t, adminUsr)
		before := store.Items()
		gw.Err = errRemoteDown

		err := store.Update(context.Background(), before[0].ID, request.UpdateRequest{Reason: "Checkup"})
		require.Error(t, err)

		assert.Equal(t, before, store.Items())
		require.Len(t, *alerts, 1)
		assert.Contains(t, (*alerts)[0], "restored")
	})
}

func Test_RequestStore_Delete(t *testing.T) {
	t.Run("success removes the record", func(t *testing.T) {
		store, _, _ := newStore(t, adminUsr)
		before := store.Items()
		id := before[0].ID

		require.NoError(t, store.Delete(context.Background(), id))

		assert.Len(t, store.Items(), len(before)-1)
		_, ok := store.Get(id)
		assert.False(t, ok)
	})

	t.Run("failure restores the record in place", func(t *testing.T) {
		store, gw, alerts := newStore(t, adminUsr)
		before := store.Items()
		gw.Err = errRemoteDown

		err := store.Delete(context.Background(), before[0].ID)
		require.Error(t, err)

		assert.Equal(t, before, store.Items())
		assert.Len(t, *alerts, 1)
	})
}

func Test_RequestStore_ChangeStatus(t *testing.T) {
	pendingID := func(store *RequestStore) string {
		for _, req := range store.Items() {
			if req.Status == request.StatusPending {
				return req.ID
			}
		}
		return ""
	}

	t.Run("approval stamps status and approver", func(t *testing.T) {
		store, _, _ := newStore(t, adminUsr)
		id := pendingID(store)
		require.NotEmpty(t, id)

		require.NoError(t, store.ChangeStatus(context.Background(), id, request.StatusApproved))

		got, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, request.StatusApproved, got.Status)
		assert.Equal(t, "Demo Administrator", got.Approver)
	})

	t.Run("failed decision rolls back status and approver", func(t *testing.T) {
		store, gw, alerts := newStore(t, adminUsr)
		id := pendingID(store)
		require.NotEmpty(t, id)
		before := store.Items()
		gw.Err = errRemoteDown

		err := store.ChangeStatus(context.Background(), id, request.StatusApproved)
		require.Error(t, err)

		assert.Equal(t, before, store.Items())
		got, _ := store.Get(id)
		assert.Equal(t, request.StatusPending, got.Status)
		assert.Empty(t, got.Approver)
		assert.Len(t, *alerts, 1)
	})
}

// End-to-end walk: a student submits, an admin decides, a failure rolls back.
func Test_RequestStore_scenarios(t *testing.T) {
	gw := NewMockGateway()

	// student session
	gw.AsUser = "hs1"
	studentStore := NewRequestStore(gw, studentUsr, nil)
	require.NoError(t, studentStore.Load(context.Background()))
	require.NoError(t, studentStore.Create(context.Background(), validNewRequest()))

	// the student sees their own requests only
	visible := studentStore.Filtered(request.QueryFilter{})
	for _, req := range visible {
		assert.Equal(t, "hs1", req.CreatedBy)
	}

	// admin session picks up the new request
	gw.AsUser = "admin"
	adminStore := NewRequestStore(gw, adminUsr, nil)
	require.NoError(t, adminStore.Load(context.Background()))

	pending := adminStore.Filtered(request.QueryFilter{Status: request.StatusPending})
	require.NotEmpty(t, pending)
	id := pending[0].ID

	require.NoError(t, adminStore.ChangeStatus(context.Background(), id, request.StatusApproved))
	got, ok := adminStore.Get(id)
	require.True(t, ok)
	assert.Equal(t, request.StatusApproved, got.Status)

	// a later decision fails remotely and leaves no trace
	pending = adminStore.Filtered(request.QueryFilter{Status: request.StatusPending})
	if len(pending) > 0 {
		before := adminStore.Items()
		gw.Err = errRemoteDown
		require.Error(t, adminStore.ChangeStatus(context.Background(), pending[0].ID, request.StatusRejected))
		assert.Equal(t, before, adminStore.Items())
	}
}

func Test_RequestStore_pagination(t *testing.T) {
	store, _, _ := newStore(t, adminUsr)

	filtered := store.Filtered(request.QueryFilter{})
	var all []request.LeaveRequest
	for page := 1; ; page++ {
		p := store.Page(request.QueryFilter{}, page, 1)
		if len(p) == 0 {
			break
		}
		all = append(all, p...)
	}
	assert.Equal(t, filtered, all)
}
