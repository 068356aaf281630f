package session

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"fileport/internal/models"

	"github.com/jaevor/go-nanoid"
)

const idLength = 32

// Manager holds the server-side half of browser sessions. A session exists
// only after a successful login; its absence means the visitor is anonymous.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
	newID    func() string
	now      func() time.Time
}

func NewManager(ttl time.Duration) (*Manager, error) {
	generateID, err := nanoid.Standard(idLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return &Manager{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		newID:    generateID,
		now:      time.Now,
	}, nil
}

// Create binds user to a fresh session.
func (m *Manager) Create(user *models.User, r *http.Request) *models.Session {
	now := m.now()
	sess := &models.Session{
		ID:          m.newID(),
		AccessToken: user.AccessToken,
		UserID:      user.UserID,
		CreatedAt:   now,
	}
	if m.ttl > 0 {
		sess.ExpiresAt = now.Add(m.ttl)
	}
	if r != nil {
		sess.UserAgent = r.UserAgent()
		sess.ClientIP = ClientIP(r)
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	cp := *sess
	return &cp
}

// Get returns a copy of a live session. Expired sessions are evicted.
func (m *Manager) Get(id string) (*models.Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if sess.Expired(m.now()) {
		m.Invalidate(id)
		return nil, false
	}

	cp := *sess
	return &cp, true
}

func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Sweep drops every expired session and reports how many were removed.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if sess.Expired(now) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ClientIP prefers the first X-Forwarded-For hop and reports the IPv6
// loopback as 127.0.0.1.
func ClientIP(r *http.Request) string {
	ip := ""
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip == "" {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
	}
	if ip == "::1" || ip == "0:0:0:0:0:0:0:1" {
		ip = "127.0.0.1"
	}
	return ip
}
