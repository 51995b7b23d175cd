package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

// RemoteError is a non-2xx verdict from the server.
type RemoteError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (err *RemoteError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return fmt.Sprintf("request failed with status %d", err.StatusCode)
}

type httpGateway struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Gateway = (*httpGateway)(nil)

// NewHTTPGateway talks to the leave request API at baseURL (e.g.
// "http://localhost:8000/v1"). token may be empty until Login, or restored
// from a saved session.
func NewHTTPGateway(baseURL, token string) *httpGateway {
	return &httpGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (gw *httpGateway) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, gw.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set(headerContentType, mimeApplicationJSON)
	}
	if gw.token != "" {
		req.Header.Set("Authorization", "Bearer "+gw.token)
	}

	res, err := gw.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeError(res)
	}
	if out != nil && res.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response")
		}
	}
	return nil
}

const (
	headerContentType   = "Content-Type"
	mimeApplicationJSON = "application/json"
)

// decodeError maps the server's error payloads: {"error": msg} for plain
// messages, {field: msg, ...} for validation errors.
func decodeError(res *http.Response) error {
	remoteErr := &RemoteError{StatusCode: res.StatusCode}

	var payload map[string]string
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return remoteErr
	}
	if msg, ok := payload["error"]; ok && len(payload) == 1 {
		remoteErr.Message = msg
		return remoteErr
	}
	remoteErr.Message = "validation failed"
	remoteErr.Fields = payload
	return remoteErr
}

type loginResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func (gw *httpGateway) Login(ctx context.Context, username, password string) (user.User, error) {
	var res loginResponse
	err := gw.do(ctx, http.MethodPost, "/users/login", jsonMap{"username": username, "password": password}, &res)
	if err != nil {
		return user.User{}, err
	}
	gw.token = res.Token
	return res.User, nil
}

// Token returns the bearer token obtained at login, for session persistence.
func (gw *httpGateway) Token() string { return gw.token }

type jsonMap map[string]interface{}

func (gw *httpGateway) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	err := gw.do(ctx, http.MethodPost, "/users/register", nu, &usr)
	return usr, err
}

func (gw *httpGateway) LoadAll(ctx context.Context) (Bootstrap, error) {
	var boot Bootstrap
	err := gw.do(ctx, http.MethodGet, "/bootstrap", nil, &boot)
	return boot, err
}

func (gw *httpGateway) GetSettings(ctx context.Context) (settings.Settings, error) {
	var conf settings.Settings
	err := gw.do(ctx, http.MethodGet, "/settings", nil, &conf)
	return conf, err
}

func (gw *httpGateway) SaveSettings(ctx context.Context, us settings.UpdateSettings) (settings.Settings, error) {
	var conf settings.Settings
	err := gw.do(ctx, http.MethodPut, "/settings", us, &conf)
	return conf, err
}

func (gw *httpGateway) CreateRequest(ctx context.Context, nr request.NewRequest) (request.LeaveRequest, error) {
	var req request.LeaveRequest
	err := gw.do(ctx, http.MethodPost, "/requests", nr, &req)
	return req, err
}

func (gw *httpGateway) UpdateRequest(ctx context.Context, id string, patch request.UpdateRequest) (request.LeaveRequest, error) {
	var req request.LeaveRequest
	// decisions go through the dedicated status endpoint
	if patch.Status != "" {
		err := gw.do(ctx, http.MethodPut, "/requests/"+id+"/status", jsonMap{"status": patch.Status}, &req)
		return req, err
	}
	err := gw.do(ctx, http.MethodPut, "/requests/"+id, patch, &req)
	return req, err
}

func (gw *httpGateway) DeleteRequest(ctx context.Context, id string) error {
	return gw.do(ctx, http.MethodDelete, "/requests/"+id, nil, nil)
}

func (gw *httpGateway) CreateUser(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	err := gw.do(ctx, http.MethodPost, "/users", nu, &usr)
	return usr, err
}

func (gw *httpGateway) UpdateUser(ctx context.Context, id string, uu user.UpdateUser) (user.User, error) {
	var usr user.User
	err := gw.do(ctx, http.MethodPut, "/users/"+id, uu, &usr)
	return usr, err
}

func (gw *httpGateway) DeleteUser(ctx context.Context, id string) error {
	return gw.do(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (gw *httpGateway) UploadFile(ctx context.Context, filename string, src io.Reader) (string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "building multipart body")
	}
	if _, err := io.Copy(part, src); err != nil {
		return "", errors.Wrap(err, "reading attachment")
	}
	if err := mw.Close(); err != nil {
		return "", errors.Wrap(err, "finalizing multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gw.baseURL+"/uploads", body)
	if err != nil {
		return "", errors.Wrap(err, "building request")
	}
	req.Header.Set(headerContentType, mw.FormDataContentType())
	if gw.token != "" {
		req.Header.Set("Authorization", "Bearer "+gw.token)
	}

	res, err := gw.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "sending request")
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return "", decodeError(res)
	}
	var out uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}
	return out.URL, nil
}
