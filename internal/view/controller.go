package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/session"
	"golang.org/x/sync/singleflight"
)

// Controller picks the visible mode from session state and runs user
// actions. It is safe for concurrent use.
//
// c.mu is never held while calling into the session Manager: the Manager
// calls back into onSessionChange on the same goroutine.
type Controller struct {
	sess   *session.Manager
	api    TaskAPI
	notify Notifier

	loads singleflight.Group

	mu    sync.Mutex
	mode  Mode
	tasks []models.Task
	opts  apiclient.ListOptions

	unsubscribe func()
}

// New creates a Controller showing the login screen. notify may be nil.
func New(sess *session.Manager, api TaskAPI, notify Notifier) *Controller {
	if notify == nil {
		notify = discard{}
	}
	c := &Controller{
		sess:   sess,
		api:    api,
		notify: notify,
		mode:   ModeLogin,
	}
	c.unsubscribe = sess.Subscribe(c.onSessionChange)
	return c
}

// Close detaches the controller from the session.
func (c *Controller) Close() {
	c.unsubscribe()
}

// Start restores the persisted session and shows the matching screen. A
// stored token that has expired is cleared and reported.
func (c *Controller) Start(ctx context.Context) Mode {
	_, hadToken := c.sess.LoadPersistedToken()
	if c.sess.Restore() == session.Authenticated {
		c.setMode(ModeDashboard)
		c.Refresh(ctx)
		return c.Mode()
	}
	c.setMode(ModeLogin)
	if hadToken {
		c.notify.Notify(KindError, MsgSessionExpired)
	}
	return ModeLogin
}

// Mode returns the visible mode
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Tasks returns a copy of the last loaded task list.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// SetListOptions sets the paging used by Refresh.
func (c *Controller) SetListOptions(opts apiclient.ListOptions) {
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
}

// Nav returns the navigation bar for the current session.
func (c *Controller) Nav() Nav {
	if c.sess.Valid() {
		return Nav{Greeting: "Welcome back!", Actions: []Action{ActionLogout}}
	}
	return Nav{Actions: []Action{ActionLogin, ActionSignup}}
}

func (c *Controller) ShowLogin() Mode  { return c.setMode(ModeLogin) }
func (c *Controller) ShowSignup() Mode { return c.setMode(ModeSignup) }

// ShowDashboard switches to the task list. Without a valid session the
// session is invalidated and the login screen is shown instead.
func (c *Controller) ShowDashboard() Mode { return c.showAuthenticated(ModeDashboard) }

// ShowNewTaskForm switches to the new task form, guarded like ShowDashboard.
func (c *Controller) ShowNewTaskForm() Mode { return c.showAuthenticated(ModeNewTask) }

// HideNewTaskForm goes back to the task list.
func (c *Controller) HideNewTaskForm() Mode { return c.showAuthenticated(ModeDashboard) }

func (c *Controller) showAuthenticated(m Mode) Mode {
	if !c.sess.RequireValidOrInvalidate() {
		return c.setMode(ModeLogin)
	}
	return c.setMode(m)
}

func (c *Controller) setMode(m Mode) Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
	return m
}

// onSessionChange moves off the authenticated screens whenever the session
// ends. Only a session that ends while one of them is visible is reported;
// explicit logout switches mode before invalidating.
func (c *Controller) onSessionChange(s session.State) {
	if s == session.Authenticated {
		return
	}
	c.mu.Lock()
	forced := c.mode.Authenticated()
	if forced {
		c.mode = ModeLogin
	}
	c.tasks = nil
	c.mu.Unlock()

	if forced {
		slog.Debug("view: session ended")
		c.notify.Notify(KindError, MsgSessionExpired)
	}
}

// Login signs in and shows the dashboard.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return c.invalid(MsgFillAllFields)
	}
	err := c.sess.Login(ctx, models.LoginCredentials{Username: username, Password: password})
	return c.afterAcquire(ctx, err, MsgLoginSuccess)
}

// Signup creates an account, signs in with it and shows the dashboard.
func (c *Controller) Signup(ctx context.Context, creds models.SignupCredentials) error {
	if strings.TrimSpace(creds.Username) == "" || strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return c.invalid(MsgFillAllFields)
	}
	if len(creds.Password) < MinPasswordLen {
		return c.invalid(MsgPasswordTooShort)
	}
	err := c.sess.Signup(ctx, creds)
	return c.afterAcquire(ctx, err, MsgSignupSuccess)
}

func (c *Controller) afterAcquire(ctx context.Context, err error, success string) error {
	if errors.Is(err, session.ErrInFlight) {
		return err
	}
	if err != nil {
		c.notify.Notify(KindError, err.Error())
		return err
	}
	c.setMode(ModeDashboard)
	c.notify.Notify(KindSuccess, success)
	c.Refresh(ctx)
	return nil
}

func (c *Controller) invalid(msg string) error {
	c.notify.Notify(KindError, msg)
	return &ValidationError{Msg: msg}
}

// Logout ends the session and shows the login screen.
func (c *Controller) Logout() error {
	c.mu.Lock()
	c.mode = ModeLogin
	c.tasks = nil
	c.mu.Unlock()

	err := c.sess.Invalidate()
	c.notify.Notify(KindSuccess, MsgLoggedOut)
	return err
}

// Refresh reloads the task list. Concurrent calls with the same paging
// share one request, which runs detached from any single caller's ctx;
// each caller stops waiting when its own ctx is done.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()

	key := fmt.Sprintf("tasks:%d:%d", opts.Skip, opts.Limit)
	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key, func() (any, error) {
		var tasks []models.Task
		err := c.sess.Protected(loadCtx, func(ctx context.Context, tok string) error {
			var err error
			tasks, err = c.api.ListTasks(ctx, tok, opts)
			return err
		})
		if err != nil {
			slog.Debug("view: load tasks", "err", err)
			if !errors.Is(err, session.ErrNotAuthenticated) {
				c.notify.Notify(KindError, MsgLoadTasksFailed)
			}
			return nil, err
		}
		c.mu.Lock()
		if c.opts == opts {
			c.tasks = tasks
		}
		c.mu.Unlock()
		return tasks, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("view: task load coalesced", "key", key)
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CreateTask submits a new task, returns to the dashboard and reloads.
func (c *Controller) CreateTask(ctx context.Context, in models.TaskCreate) (*models.Task, error) {
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if err := in.Validate(); err != nil {
		return nil, c.invalid(capitalize(err.Error()))
	}

	var created *models.Task
	err := c.sess.Protected(ctx, func(ctx context.Context, tok string) error {
		var err error
		created, err = c.api.CreateTask(ctx, tok, in)
		return err
	})
	if err != nil {
		c.reportFailure(err, MsgCreateFailed)
		return nil, err
	}

	c.HideNewTaskForm()
	c.notify.Notify(KindSuccess, MsgTaskCreated)
	c.Refresh(ctx)
	return created, nil
}

// DeleteTask deletes a task and reloads. Confirmation is the caller's job.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	err := c.sess.Protected(ctx, func(ctx context.Context, tok string) error {
		return c.api.DeleteTask(ctx, tok, id)
	})
	if err != nil {
		c.reportFailure(err, MsgDeleteFailed)
		return err
	}
	c.notify.Notify(KindSuccess, MsgTaskDeleted)
	c.Refresh(ctx)
	return nil
}

// Task fetches a single task.
func (c *Controller) Task(ctx context.Context, id string) (*models.Task, error) {
	var task *models.Task
	err := c.sess.Protected(ctx, func(ctx context.Context, tok string) error {
		var err error
		task, err = c.api.GetTask(ctx, tok, id)
		return err
	})
	if err != nil {
		c.reportFailure(err, MsgLoadTaskFailed)
		return nil, err
	}
	return task, nil
}

// CurrentUser fetches the signed-in account.
func (c *Controller) CurrentUser(ctx context.Context) (*models.User, error) {
	var user *models.User
	err := c.sess.Protected(ctx, func(ctx context.Context, tok string) error {
		var err error
		user, err = c.api.Me(ctx, tok)
		return err
	})
	if err != nil {
		c.reportFailure(err, MsgGenericFailure)
		return nil, err
	}
	return user, nil
}

// reportFailure notifies about a failed protected call. Session loss has
// already been reported by onSessionChange.
func (c *Controller) reportFailure(err error, fallback string) {
	slog.Debug("view: action failed", "err", err)
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
	case errors.Is(err, apiclient.ErrNetwork), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.notify.Notify(KindError, MsgGenericFailure)
	default:
		c.notify.Notify(KindError, apiclient.DetailOr(err, fallback))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
