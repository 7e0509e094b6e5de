// Package session is the single source of truth for whether the user is
// authenticated. A Manager owns the bearer token: it loads it from the
// token store at startup, decides whether it is still valid, exchanges
// credentials for new tokens, and clears it on logout, on local expiry, or
// when the server answers a protected call with 401.
//
// Expiry is decided from the token's own exp claim without verifying its
// signature. That is enough to gate what the client shows; it is not a
// security boundary, and the server re-validates every request.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/token"
	"github.com/marcus/tmc/internal/tokenstore"
)

// State is the authentication state of a Manager
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

var (
	// ErrNotAuthenticated is returned by Protected when no valid token is
	// held. By the time it is returned the session has been invalidated.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInFlight is returned when Login or Signup is called while another
	// exchange is still running.
	ErrInFlight = errors.New("authentication already in progress")
)

// Authenticator exchanges credentials for tokens. *apiclient.Client
// satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds models.LoginCredentials) (*models.TokenResponse, error)
	Signup(ctx context.Context, creds models.SignupCredentials) (*models.TokenResponse, error)
}

// Manager owns the session token. It is safe for concurrent use.
type Manager struct {
	store tokenstore.Store
	auth  Authenticator
	now   func() time.Time

	mu        sync.Mutex
	token     string
	state     State
	listeners map[int]func(State)
	nextID    int

	acquiring atomic.Bool
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New creates a Manager in the Unauthenticated state. Call Restore to pick
// up a previously persisted token.
func New(store tokenstore.Store, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		auth:      auth,
		now:       time.Now,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadPersistedToken reads the token from the store. It never touches the
// network. Store errors are logged and reported as absent.
func (m *Manager) LoadPersistedToken() (string, bool) {
	raw, ok, err := m.store.Get(tokenstore.TokenKey)
	if err != nil {
		slog.Warn("session: read persisted token", "err", err)
		return "", false
	}
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}

// IsExpired reports whether raw must be treated as expired now. Absent,
// malformed, and undecodable tokens are expired.
func (m *Manager) IsExpired(raw string) bool {
	return token.IsExpired(raw, m.now())
}

// Restore sets the initial state from the persisted token. A token that is
// present but expired is cleared from the store.
func (m *Manager) Restore() State {
	raw, ok := m.LoadPersistedToken()
	if !ok {
		m.setState("", Unauthenticated, false)
		return Unauthenticated
	}
	if err := token.Check(raw, m.now()); err != nil {
		slog.Debug("session: persisted token rejected", "reason", err)
		m.Invalidate()
		return Unauthenticated
	}
	m.setState(raw, Authenticated, true)
	return Authenticated
}

// State returns the current state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Valid reports whether a token is held and not expired, without side
// effects. Use RequireValidOrInvalidate before protected calls.
func (m *Manager) Valid() bool {
	m.mu.Lock()
	raw := m.token
	m.mu.Unlock()
	return raw != "" && !m.IsExpired(raw)
}

// Token returns the held token, or "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Expiry returns when the held token expires.
func (m *Manager) Expiry() (time.Time, bool) {
	raw := m.Token()
	if raw == "" {
		return time.Time{}, false
	}
	claims, err := token.Decode(raw)
	if err != nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// Subscribe registers fn to run after every state transition and every
// Invalidate. fn runs on the goroutine that caused the change, outside the
// Manager's lock. The returned func removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Invalidate clears the persisted token and moves to Unauthenticated,
// whatever the prior state. Calling it repeatedly is harmless. The in-memory
// transition happens even when the store fails; the store error is returned.
func (m *Manager) Invalidate() error {
	err := m.store.Delete(tokenstore.TokenKey)
	if err != nil {
		slog.Warn("session: clear persisted token", "err", err)
		err = fmt.Errorf("clear persisted token: %w", err)
	}
	slog.Debug("session: invalidate")
	m.setState("", Unauthenticated, true)
	return err
}

// RequireValidOrInvalidate returns true only if a token is held and not
// expired. Otherwise it invalidates the session and returns false, so a
// stale credential is never sent.
func (m *Manager) RequireValidOrInvalidate() bool {
	_, ok := m.validToken()
	return ok
}

func (m *Manager) validToken() (string, bool) {
	m.mu.Lock()
	raw := m.token
	m.mu.Unlock()

	if err := token.Check(raw, m.now()); err != nil {
		slog.Debug("session: guard rejected token", "reason", err)
		m.Invalidate()
		return "", false
	}
	return raw, true
}

// Protected runs fn with the current token after checking it locally.
// When the local check fails fn is not called and ErrNotAuthenticated is
// returned. When fn fails with a 401 the session is invalidated and the
// error is wrapped with ErrNotAuthenticated. Any other error passes through.
func (m *Manager) Protected(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	raw, ok := m.validToken()
	if !ok {
		return ErrNotAuthenticated
	}
	err := fn(ctx, raw)
	if err != nil && errors.Is(err, apiclient.ErrUnauthorized) {
		slog.Debug("session: server rejected token", "err", err)
		m.Invalidate()
		return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
	}
	return err
}

func (m *Manager) setState(raw string, s State, notify bool) {
	m.mu.Lock()
	m.token = raw
	m.state = s
	var fns []func(State)
	if notify {
		fns = make([]func(State), 0, len(m.listeners))
		for _, fn := range m.listeners {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
