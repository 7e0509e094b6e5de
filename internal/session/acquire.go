package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/tokenstore"
)

// AuthError is returned when Login or Signup fails. Detail is safe to show
// to the user: the server's detail message verbatim when it sent one,
// otherwise a generic message for the operation.
type AuthError struct {
	Op     string // "login" or "signup"
	Detail string
	Err    error
}

func (e *AuthError) Error() string { return e.Detail }

func (e *AuthError) Unwrap() error { return e.Err }

type acquireOp struct {
	name     string
	rejected string // shown when the server refuses without a detail
	call     func(ctx context.Context) (*models.TokenResponse, error)
}

// Login exchanges a username and password for a token. On success the
// token is persisted and the session becomes Authenticated.
func (m *Manager) Login(ctx context.Context, creds models.LoginCredentials) error {
	return m.acquire(ctx, acquireOp{
		name:     "login",
		rejected: "Invalid email or password",
		call: func(ctx context.Context) (*models.TokenResponse, error) {
			return m.auth.Login(ctx, creds)
		},
	})
}

// Signup registers an account and signs in with the token it returns.
func (m *Manager) Signup(ctx context.Context, creds models.SignupCredentials) error {
	return m.acquire(ctx, acquireOp{
		name:     "signup",
		rejected: "Error creating account",
		call: func(ctx context.Context) (*models.TokenResponse, error) {
			return m.auth.Signup(ctx, creds)
		},
	})
}

// acquire runs one credential exchange. Only one may be in flight; a
// failed exchange leaves the session Unauthenticated with nothing persisted.
func (m *Manager) acquire(ctx context.Context, op acquireOp) error {
	if !m.acquiring.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer m.acquiring.Store(false)

	resp, err := op.call(ctx)
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = errors.New("response carried no access token")
	}
	if err != nil {
		m.dropAfterFailedAcquire()
		authErr := &AuthError{Op: op.name, Err: err}
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			authErr.Detail = apiclient.DetailOr(err, op.rejected)
		} else {
			authErr.Detail = fmt.Sprintf("An error occurred during %s", op.name)
		}
		slog.Debug("session: acquire failed", "op", op.name, "err", err)
		return authErr
	}

	if err := m.store.Set(tokenstore.TokenKey, resp.AccessToken); err != nil {
		m.dropAfterFailedAcquire()
		return &AuthError{
			Op:     op.name,
			Detail: "Could not save session",
			Err:    fmt.Errorf("persist token: %w", err),
		}
	}

	slog.Debug("session: acquired", "op", op.name)
	m.setState(resp.AccessToken, Authenticated, true)
	return nil
}

// dropAfterFailedAcquire ensures nothing is persisted after a failed
// exchange. Listeners hear about it only if the user was signed in, so a
// failed signup does not bounce an anonymous user off the signup view.
func (m *Manager) dropAfterFailedAcquire() {
	if m.State() == Authenticated {
		m.Invalidate()
		return
	}
	if err := m.store.Delete(tokenstore.TokenKey); err != nil {
		slog.Warn("session: clear persisted token", "err", err)
	}
	m.setState("", Unauthenticated, false)
}
