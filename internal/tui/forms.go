package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/tmc/internal/dateparse"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/view"
)

var errRequired = errors.New("required")

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errRequired
	}
	return nil
}

// loginForm holds the bound values of the login form.
type loginForm struct {
	Form     *huh.Form
	Username string
	Password string
}

func newLoginForm() *loginForm {
	f := &loginForm{}
	f.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&f.Username).
				Placeholder("you@example.com").
				Validate(required),
			huh.NewInput().
				Title("Password").
				Value(&f.Password).
				EchoMode(huh.EchoModePassword).
				Validate(required),
		).Title("Login"),
	).WithShowHelp(false).WithTheme(huh.ThemeDracula())
	return f
}

// signupForm holds the bound values of the signup form. Field rules beyond
// presence are checked by the controller so the messages match the CLI.
type signupForm struct {
	Form     *huh.Form
	Username string
	Email    string
	Password string
}

func newSignupForm() *signupForm {
	f := &signupForm{}
	f.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&f.Username).
				Validate(required),
			huh.NewInput().
				Title("Email").
				Value(&f.Email).
				Placeholder("you@example.com").
				Validate(required),
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters").
				Value(&f.Password).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < view.MinPasswordLen {
						return errors.New("too short")
					}
					return nil
				}),
		).Title("Sign Up"),
	).WithShowHelp(false).WithTheme(huh.ThemeDracula())
	return f
}

func (f *signupForm) credentials() models.SignupCredentials {
	return models.SignupCredentials{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
}

// taskForm holds the bound values of the new task form.
type taskForm struct {
	Form        *huh.Form
	Title       string
	Description string
	Priority    string
	Due         string
}

func newTaskForm() *taskForm {
	f := &taskForm{Priority: string(models.PriorityMedium)}
	priorities := make([]huh.Option[string], 0, len(models.Priorities))
	for _, p := range models.Priorities {
		priorities = append(priorities, huh.NewOption(strings.ToUpper(string(p[:1]))+string(p[1:]), string(p)))
	}

	f.Form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Placeholder("Task title...").
				Validate(required),
			huh.NewText().
				Title("Description").
				Value(&f.Description).
				Placeholder("Optional, markdown is fine").
				Lines(3),
			huh.NewSelect[string]().
				Title("Priority").
				Options(priorities...).
				Value(&f.Priority),
			huh.NewInput().
				Title("Due").
				Value(&f.Due).
				Placeholder("tomorrow 17:00, +3d, 2026-03-01T09:00").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := dateparse.ParseDue(s)
					return err
				}),
		).Title("New Task"),
	).WithShowHelp(false).WithTheme(huh.ThemeDracula())
	return f
}

// toTaskCreate converts the form values to a request body.
func (f *taskForm) toTaskCreate() (models.TaskCreate, error) {
	in := models.TaskCreate{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Priority:    models.Priority(f.Priority),
	}
	if due := strings.TrimSpace(f.Due); due != "" {
		t, err := dateparse.ParseDue(due)
		if err != nil {
			return in, err
		}
		in.DueDate = &models.Timestamp{Time: t}
	}
	return in, nil
}
