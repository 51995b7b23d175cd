package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
	emailsvc "github.com/nvthanh/eduleave/services/email"
	dummydb "github.com/nvthanh/eduleave/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app     Server
	usrSvc  user.Service
	reqSvc  request.Service
	confSvc settings.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(dummydb.NewUserRepository(db), mailSvc)
	confSvc := settings.NewService(dummydb.NewSettingsRepository(db))
	reqSvc := request.NewService(dummydb.NewRequestRepository(db), usrSvc, mailSvc, nil)

	app := NewServer(
		&Options{
			DisableReqLogs: true,
			UserSvc:        usrSvc,
			RequestSvc:     reqSvc,
			SettingsSvc:    confSvc,
		},
	)
	return &testApp{app: app, usrSvc: usrSvc, reqSvc: reqSvc, confSvc: confSvc}
}

func (ta *testApp) createUser(t *testing.T, uname, fullname, role, class string) user.User {
	t.Helper()
	usr, err := ta.usrSvc.Create(user.NewUser{
		FullName:        fullname,
		Username:        uname,
		Email:           uname + "@school.test",
		Password:        "V3ry$ecret!",
		PasswordConfirm: "V3ry$ecret!",
		Role:            role,
		Class:           class,
	})
	require.NoError(t, err)
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := generateToken(getUserClaims(usr))
	require.NoError(t, err)
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("%s: code = %d; want %d; body: %s", tt.name, rec.Code, tt.wantCode, rec.Body.String())
		return
	}
	if tt.wantData != nil {
		require.JSONEq(t, string(tt.wantData), rec.Body.String(), tt.name)
	}
}
