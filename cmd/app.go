package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/config"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/session"
	"github.com/marcus/tmc/internal/tokenstore"
	"github.com/marcus/tmc/internal/view"
)

var (
	errNotLoggedIn    = errors.New("not logged in (run 'tmc login')")
	errSessionExpired = errors.New(view.MsgSessionExpired)
)

// app is the object graph every command runs against.
type app struct {
	store  tokenstore.Store
	client *apiclient.Client
	sess   *session.Manager
	ctl    *view.Controller
}

// openApp wires config, token store, API client, session and controller.
// Controller notifications go to notify; nil prints them on stdout.
// Errors are returned unprinted.
func openApp(notify view.Notifier) (*app, error) {
	if notify == nil {
		notify = output.NewNotifier(os.Stdout)
	}

	url := apiURL()
	origin, err := tokenstore.Origin(url)
	if err != nil {
		return nil, err
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	store, err := tokenstore.Open(config.StoreBackend(), dir, origin)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	slog.Debug("app: open", "api", url, "store", config.StoreBackend())

	client := apiclient.New(url, config.APITimeout())
	sess := session.New(store, client)
	return &app{
		store:  store,
		client: client,
		sess:   sess,
		ctl:    view.New(sess, client, notify),
	}, nil
}

func (a *app) Close() {
	a.ctl.Close()
	if err := a.store.Close(); err != nil {
		slog.Debug("app: close store", "err", err)
	}
}

// requireSession restores the persisted session for a protected command.
// An expired token is cleared and reported like a forced logout.
func (a *app) requireSession(jsonOutput bool) error {
	_, hadToken := a.sess.LoadPersistedToken()
	if a.sess.Restore() == session.Authenticated {
		a.ctl.ShowDashboard()
		return nil
	}
	if hadToken {
		return fail(jsonOutput, errSessionExpired)
	}
	return fail(jsonOutput, errNotLoggedIn)
}
