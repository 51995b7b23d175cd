package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvthanh/eduleave/core/user"
)

func Test_SessionStore(t *testing.T) {
	usr := user.User{ID: "u1", Username: "admin", Role: user.RoleAdmin}

	newStore := func(t *testing.T) *SessionStore {
		t.Helper()
		return NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	}

	t.Run("load before save", func(t *testing.T) {
		ss := newStore(t)
		_, ok := ss.Load()
		assert.False(t, ok)
	})

	t.Run("save then load", func(t *testing.T) {
		ss := newStore(t)
		saved, err := ss.Save(usr, "tok123")
		require.NoError(t, err)
		assert.True(t, saved.Expiry.After(time.Now()))

		got, ok := ss.Load()
		require.True(t, ok)
		assert.Equal(t, usr, got.User)
		assert.Equal(t, "tok123", got.Token)
	})

	t.Run("expired sessions are discarded", func(t *testing.T) {
		ss := newStore(t)
		_, err := ss.Save(usr, "tok123")
		require.NoError(t, err)

		// jump past the lifetime
		ss.now = func() time.Time { return time.Now().Add(ss.lifetime + time.Minute) }
		_, ok := ss.Load()
		assert.False(t, ok)

		// the stale file is gone; a fresh clock still finds nothing
		ss.now = time.Now
		_, ok = ss.Load()
		assert.False(t, ok)
	})

	t.Run("clear forgets the session", func(t *testing.T) {
		ss := newStore(t)
		_, err := ss.Save(usr, "tok123")
		require.NoError(t, err)

		ss.Clear()
		_, ok := ss.Load()
		assert.False(t, ok)
	})

	t.Run("corrupt file is treated as absent", func(t *testing.T) {
		ss := newStore(t)
		_, err := ss.Save(usr, "tok123")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(ss.path, []byte("{not json"), 0o600))
		_, ok := ss.Load()
		assert.False(t, ok)
	})
}
