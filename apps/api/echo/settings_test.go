package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

func Test_settingsApi(t *testing.T) {
	ta := setup(t)
	admin := ta.createUser(t, "admin", "The Admin", user.RoleAdmin, "")
	student := ta.createUser(t, "hs1", "Nguyen Van A", user.RoleStudent, "10A1")

	newSettings := func() []byte {
		return marshalObj(t, settings.UpdateSettings{
			SchoolName:  "THPT Demo",
			Classes:     []string{"10A1", "10A2"},
			Reasons:     []string{"Sick leave"},
			CurrentWeek: 7,
		})
	}

	t.Run("settings are public", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/settings")
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var conf settings.Settings
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
		assert.NotEmpty(t, conf.Classes)
		assert.Equal(t, 1, conf.CurrentWeek)
	})

	t.Run("saving requires the configure permission", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/settings", getToken(t, student), newSettings())
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newRequest(http.MethodPut, "/v1/settings", newSettings())
		ta.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin saves and everyone reads the new config", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/settings", getToken(t, admin), newSettings())
		ta.app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var conf settings.Settings
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
		assert.Equal(t, "THPT Demo", conf.SchoolName)
		assert.Equal(t, 7, conf.CurrentWeek)

		req, rec = newRequest(http.MethodGet, "/v1/settings")
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		conf = settings.Settings{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conf))
		assert.Equal(t, "THPT Demo", conf.SchoolName)
	})

	t.Run("invalid payloads are rejected field by field", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/settings", getToken(t, admin),
			marshalObj(t, map[string]interface{}{"schoolName": "", "classes": []string{}, "reasons": []string{"x"}, "currentWeek": 0}))
		ta.app.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "schoolName")
		assert.Contains(t, rec.Body.String(), "classes")
	})
}
