package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvthanh/eduleave/core/user"
)

func Test_userApi_login(t *testing.T) {
	ta := setup(t)
	ta.createUser(t, "admin", "The Admin", user.RoleAdmin, "")

	t.Run("valid credentials return a token and the user", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marshalObj(t, map[string]string{"username": "admin", "password": "V3ry$ecret!"}))
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "admin", res.User.Username)
		assert.False(t, res.User.LastLogin.IsZero())
	})

	t.Run("bad password", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marshalObj(t, map[string]string{"username": "admin", "password": "nope"}))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, string(marshalObj(t, httpErr{Error: "authentication failed"})), rec.Body.String())
	})

	t.Run("unknown user gets the same answer", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marshalObj(t, map[string]string{"username": "ghost", "password": "nope"}))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, string(marshalObj(t, httpErr{Error: "authentication failed"})), rec.Body.String())
	})

	t.Run("deactivated account", func(t *testing.T) {
		usr := ta.createUser(t, "gone", "Gone User", user.RoleViewer, "")
		inactive := false
		_, err := ta.usrSvc.Update(usr.ID, user.UpdateUser{IsActive: &inactive})
		require.NoError(t, err)

		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marshalObj(t, map[string]string{"username": "gone", "password": "V3ry$ecret!"}))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_userApi_register(t *testing.T) {
	ta := setup(t)

	body := func(uname, role string) []byte {
		return marshalObj(t, map[string]string{
			"username":         uname,
			"fullname":         "New User",
			"password":         "V3ry$ecret!",
			"password_confirm": "V3ry$ecret!",
			"role":             role,
			"class":            "10A1",
		})
	}

	t.Run("students can sign up", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body("newhs", user.RoleStudent))
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var usr user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
		assert.Equal(t, user.RoleStudent, usr.Role)
		assert.True(t, usr.IsActive)
	})

	t.Run("admin accounts cannot be self-registered", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body("evil", user.RoleAdmin))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "role")
	})

	t.Run("duplicate username", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/register", body("newhs", user.RoleStudent))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "username")
	})
}

func Test_userApi_adminCRUD(t *testing.T) {
	ta := setup(t)
	admin := ta.createUser(t, "admin", "The Admin", user.RoleAdmin, "")
	student := ta.createUser(t, "hs1", "Nguyen Van A", user.RoleStudent, "10A1")
	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "Admin required", method: http.MethodGet, path: "/v1/users", token: studentToken,
			wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Get all", method: http.MethodGet, path: "/v1/users", token: adminToken, wantCode: http.StatusOK},
		{name: "Filter by role", method: http.MethodGet, path: "/v1/users?role=HS", token: adminToken, wantCode: http.StatusOK},
		{name: "Roles list", method: http.MethodGet, path: "/v1/users/roles", token: adminToken, wantCode: http.StatusOK, wantData: marshalObj(t, user.Roles)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("filter narrows the list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users?role=HS", adminToken)
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var users []user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "hs1", users[0].Username)
	})

	t.Run("admin updates a user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+student.ID, adminToken,
			marshalObj(t, map[string]string{"class": "10A2"}))
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var usr user.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usr))
		assert.Equal(t, "10A2", usr.Class)
	})

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		victim := ta.createUser(t, "bye", "Bye User", user.RoleViewer, "")
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+victim.ID, adminToken)
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		_, err := ta.usrSvc.GetByID(victim.ID)
		assert.Equal(t, user.ErrNotFound, err)
	})
}
