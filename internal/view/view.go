// Package view decides which of the four screens the client shows and runs
// the user actions behind them. It owns no token: every authenticated call
// goes through session.Manager, and every session change flows back in
// through a subscription.
package view

import (
	"context"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/models"
)

// Mode is the screen currently shown. Exactly one is active at a time.
type Mode int

const (
	ModeLogin Mode = iota
	ModeSignup
	ModeDashboard
	ModeNewTask
)

func (m Mode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	case ModeSignup:
		return "signup"
	case ModeDashboard:
		return "dashboard"
	case ModeNewTask:
		return "new-task"
	}
	return "unknown"
}

// Authenticated reports whether the mode needs a valid session
func (m Mode) Authenticated() bool {
	return m == ModeDashboard || m == ModeNewTask
}

// Kind classifies a notification
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(kind Kind, msg string)
}

// NotifierFunc adapts a plain function to Notifier
type NotifierFunc func(kind Kind, msg string)

func (f NotifierFunc) Notify(kind Kind, msg string) { f(kind, msg) }

type discard struct{}

func (discard) Notify(Kind, string) {}

// TaskAPI is the part of the API the controller calls with a bearer token.
// *apiclient.Client satisfies it.
type TaskAPI interface {
	ListTasks(ctx context.Context, token string, opts apiclient.ListOptions) ([]models.Task, error)
	GetTask(ctx context.Context, token, id string) (*models.Task, error)
	CreateTask(ctx context.Context, token string, in models.TaskCreate) (*models.Task, error)
	DeleteTask(ctx context.Context, token, id string) error
	Me(ctx context.Context, token string) (*models.User, error)
}

// User-facing messages.
const (
	MsgLoginSuccess     = "Login successful!"
	MsgSignupSuccess    = "Account created successfully!"
	MsgLoggedOut        = "Logged out successfully"
	MsgSessionExpired   = "Session expired, please log in again"
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgTaskCreated      = "Task created successfully!"
	MsgTaskDeleted      = "Task deleted successfully"
	MsgLoadTasksFailed  = "Error loading tasks"
	MsgLoadTaskFailed   = "Error loading task"
	MsgCreateFailed     = "Error creating task"
	MsgDeleteFailed     = "Error deleting task"
	MsgGenericFailure   = "An error occurred"
)

// MinPasswordLen is the shortest password signup accepts.
const MinPasswordLen = 8

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Action is a navigation button
type Action int

const (
	ActionLogin Action = iota
	ActionSignup
	ActionLogout
)

func (a Action) String() string {
	switch a {
	case ActionLogin:
		return "Login"
	case ActionSignup:
		return "Sign Up"
	case ActionLogout:
		return "Logout"
	}
	return ""
}

// Nav is the content of the navigation bar.
type Nav struct {
	Greeting string
	Actions  []Action
}
