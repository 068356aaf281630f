package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"fileport/internal/models"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *time.Time) {
	t.Helper()
	m, err := NewManager(ttl)
	require.NoError(t, err)

	now := time.Date(2025, 8, 24, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	user := &models.User{UserID: "123", AccessToken: "tok"}

	r := httptest.NewRequest("GET", "/auth/callback?code=tok", nil)
	r.Header.Set("User-Agent", "test-agent")
	r.RemoteAddr = "198.51.100.10:5555"

	sess := m.Create(user, r)
	require.Len(t, sess.ID, idLength)
	require.Equal(t, "123", sess.UserID)
	require.Equal(t, "tok", sess.AccessToken)
	require.Equal(t, "test-agent", sess.UserAgent)
	require.Equal(t, "198.51.100.10", sess.ClientIP)

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	require.Equal(t, sess, got)

	other := m.Create(user, nil)
	require.NotEqual(t, sess.ID, other.ID)
	require.Equal(t, 2, m.Len())
}

func TestManager_Invalidate(t *testing.T) {
	m, _ := newTestManager(t, time.Hour)
	sess := m.Create(&models.User{UserID: "1", AccessToken: "a"}, nil)

	m.Invalidate(sess.ID)
	_, ok := m.Get(sess.ID)
	require.False(t, ok)

	m.Invalidate("never-existed")
}

func TestManager_ExpiryAndSweep(t *testing.T) {
	m, now := newTestManager(t, time.Minute)
	a := m.Create(&models.User{UserID: "1", AccessToken: "a"}, nil)

	*now = now.Add(30 * time.Second)
	b := m.Create(&models.User{UserID: "2", AccessToken: "b"}, nil)

	*now = now.Add(45 * time.Second)
	_, ok := m.Get(a.ID)
	require.False(t, ok)
	require.Equal(t, 1, m.Len())

	_, ok = m.Get(b.ID)
	require.True(t, ok)

	*now = now.Add(time.Hour)
	require.Equal(t, 1, m.Sweep())
	require.Equal(t, 0, m.Len())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "[::1]:8080"
	require.Equal(t, "127.0.0.1", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", ClientIP(r))
}
