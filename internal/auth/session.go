package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is a logged-in user's server-side state. The token travels in a
// cookie; everything else stays in memory.
type Session struct {
	Token     string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// Manager holds active sessions in memory. Sessions do not survive a
// restart, which is acceptable for a single-host deployment.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create registers a new session and returns its token.
func (m *Manager) Create(username, role string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Session{
		Token:     uuid.NewString(),
		Username:  username,
		Role:      role,
		ExpiresAt: m.now().Add(m.ttl),
	}
	m.sessions[s.Token] = s
	m.prune()
	return s
}

// Lookup returns the session for a token, or false when the token is
// unknown or expired. Expired sessions are removed on sight.
func (m *Manager) Lookup(token string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, false
	}
	if m.now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, false
	}
	return s, true
}

func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// DestroyUser removes every session belonging to a username, used when an
// account is deactivated or its password is reset.
func (m *Manager) DestroyUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.Username == username {
			delete(m.sessions, token)
		}
	}
}

// prune drops expired sessions. Caller holds the lock.
func (m *Manager) prune() {
	now := m.now()
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}
