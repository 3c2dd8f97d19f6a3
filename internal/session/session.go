// Package session holds the logged-in admin identity and bearer token over
// an injected key-value store. There is one session pair per console
// instance; login, logout and backend-401 invalidation are the only writers.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shopcrew/admin-console/internal/adminapi"
)

const (
	keyToken     = "admin_token"
	keyIdentity  = "admin_identity"
	keySessionID = "admin_session_id"
)

type Manager struct {
	store Store
	log   *slog.Logger

	mu        sync.Mutex
	listeners []func()

	// now is swapped in tests to control token expiry checks.
	now func() time.Time
}

func NewManager(store Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, log: log, now: time.Now}
}

// OnInvalidated registers a listener for session invalidation (backend 401).
// The routing layer subscribes here instead of the network layer navigating
// on its own.
func (m *Manager) OnInvalidated(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Establish persists the token and identity after a successful login and
// returns the browser session ID to set as a cookie.
func (m *Manager) Establish(token string, admin adminapi.Admin) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	identity, err := json.Marshal(admin)
	if err != nil {
		return "", fmt.Errorf("marshal identity: %w", err)
	}

	sid := uuid.NewString()
	if err := m.store.Set(keyToken, token); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Set(keyIdentity, string(identity)); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}
	if err := m.store.Set(keySessionID, sid); err != nil {
		return "", fmt.Errorf("persist session id: %w", err)
	}

	m.log.Info("session_established", "admin_id", admin.ID, "email", admin.Email)
	return sid, nil
}

// Clear removes the persisted session (logout).
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked()
}

func (m *Manager) clearLocked() error {
	for _, key := range []string{keyToken, keyIdentity, keySessionID} {
		if err := m.store.Delete(key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	return nil
}

// Invalidate clears the session in response to a backend 401 and notifies
// listeners. Safe to call from the API client's response path.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	if err := m.clearLocked(); err != nil {
		m.log.Error("session_invalidate_failed", "error", err)
	}
	listeners := make([]func(), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.log.Warn("session_invalidated")
	for _, fn := range listeners {
		fn()
	}
}

// Token returns the persisted bearer token, or "" when logged out. Wired as
// the API client's token source.
func (m *Manager) Token() string {
	token, ok, err := m.store.Get(keyToken)
	if err != nil || !ok {
		return ""
	}
	return token
}

// Current returns the logged-in admin, or nil when there is no session or
// the bearer token has expired. The token signature belongs to the backend;
// only the exp claim is inspected here.
func (m *Manager) Current() *adminapi.Admin {
	token, ok, err := m.store.Get(keyToken)
	if err != nil || !ok || token == "" {
		return nil
	}
	if m.tokenExpired(token) {
		return nil
	}

	raw, ok, err := m.store.Get(keyIdentity)
	if err != nil || !ok {
		return nil
	}
	var admin adminapi.Admin
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		m.log.Error("session_identity_corrupt", "error", err)
		return nil
	}
	return &admin
}

// Matches reports whether the browser session cookie belongs to the
// persisted session.
func (m *Manager) Matches(sid string) bool {
	if sid == "" {
		return false
	}
	stored, ok, err := m.store.Get(keySessionID)
	return err == nil && ok && stored == sid
}

func (m *Manager) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens pass through; the backend rejects them if stale.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(m.now())
}
