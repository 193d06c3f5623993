// Package session manages the authentication session for the Study Buddy
// client: acquiring, persisting, attaching, and invalidating the bearer
// token that gates every task operation.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/studybuddy/studybuddy/internal/api"
	"github.com/studybuddy/studybuddy/internal/store"
)

// Manager owns the session token. The in-memory copy and the persisted copy
// move together under the same lock, so a concurrent reader never observes
// one updated without the other.
type Manager struct {
	client *api.Client
	creds  *store.Store

	mu       sync.RWMutex
	token    string
	onLogout []func()
}

// NewManager creates a session manager backed by the given credential store,
// restoring any token persisted by a previous run.
func NewManager(client *api.Client, creds *store.Store) (*Manager, error) {
	token, err := creds.Token()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	return &Manager{
		client: client,
		creds:  creds,
		token:  token,
	}, nil
}

// OnLogout registers a callback invoked after the session is cleared.
// Dependents use this to discard per-session state.
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// Register creates a new account. Registration does not log the user in.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if err := m.client.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Login exchanges credentials for a session token, persisting it before
// returning. On failure the session is left as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	token, err := m.client.Login(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.creds.SetToken(token); err != nil {
		return "", err
	}
	m.token = token
	return token, nil
}

// Logout clears the in-memory token and the credential store, then notifies
// logout listeners. A logged-out client must never show another session's
// data.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if err := m.creds.ClearToken(); err != nil {
		m.mu.Unlock()
		return err
	}
	m.token = ""
	listeners := make([]func(), len(m.onLogout))
	copy(listeners, m.onLogout)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// IsAuthenticated reports whether a token is present. Presence does not
// guarantee the token is still valid server-side; expiry shows up as a
// failed call.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the current session token, or an empty string when logged
// out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}
