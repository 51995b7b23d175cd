package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

// Session is the locally persisted login state.
type Session struct {
	User   user.User `json:"user"`
	Token  string    `json:"token"`
	Expiry time.Time `json:"expiry"`
}

func (s Session) Expired() bool { return !time.Now().Before(s.Expiry) }

// SessionStore persists the session as a JSON file, so a restart within the
// session lifetime resumes the login.
type SessionStore struct {
	path     string
	lifetime time.Duration
	now      func() time.Time
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{
		path:     path,
		lifetime: core.Conf.SessionLifetime,
		now:      time.Now,
	}
}

// Load returns the saved session. Expired or unreadable sessions are
// discarded and reported as absent.
func (ss *SessionStore) Load() (Session, bool) {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		ss.Clear()
		return Session{}, false
	}
	if !ss.now().Before(sess.Expiry) {
		ss.Clear()
		return Session{}, false
	}
	return sess, true
}

// Save stamps the session with now + lifetime and persists it.
func (ss *SessionStore) Save(usr user.User, token string) (Session, error) {
	sess := Session{
		User:   usr,
		Token:  token,
		Expiry: ss.now().Add(ss.lifetime),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(ss.path), 0o755); err != nil {
		return Session{}, errors.Wrap(err, "creating session dir")
	}
	if err := os.WriteFile(ss.path, data, 0o600); err != nil {
		return Session{}, errors.Wrap(err, "writing session")
	}
	return sess, nil
}

func (ss *SessionStore) Clear() {
	_ = os.Remove(ss.path)
}
