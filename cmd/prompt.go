package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/marcus/tmc/internal/dateparse"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/view"
)

// canPrompt reports whether interactive forms can be shown.
func canPrompt() bool {
	return output.IsTerminal(os.Stdin) && output.IsTerminal(os.Stdout)
}

func runForm(groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithTheme(huh.ThemeDracula()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return fmt.Errorf("cancelled")
	}
	return err
}

// promptLogin asks for whichever credentials are still empty.
func promptLogin(username, password *string) error {
	var fields []huh.Field
	if *username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(huh.NewGroup(fields...).Title("Login"))
}

// promptSignup asks for whichever signup fields are still empty.
func promptSignup(creds *models.SignupCredentials) error {
	var fields []huh.Field
	if creds.Username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&creds.Username))
	}
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&creds.Email))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			Description(fmt.Sprintf("At least %d characters", view.MinPasswordLen)).
			EchoMode(huh.EchoModePassword).
			Value(&creds.Password))
	}
	if len(fields) == 0 {
		return nil
	}
	return runForm(huh.NewGroup(fields...).Title("Sign Up"))
}

// promptTask fills a new task interactively. due receives the raw due
// date text so it can be parsed with the same rules as --due.
func promptTask(in *models.TaskCreate, due *string) error {
	priority := string(in.Priority)
	if priority == "" {
		priority = string(models.PriorityMedium)
	}
	var options []huh.Option[string]
	for _, p := range models.Priorities {
		options = append(options, huh.NewOption(string(p), string(p)))
	}

	err := runForm(huh.NewGroup(
		huh.NewInput().Title("Title").Value(&in.Title).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("title is required")
			}
			return nil
		}),
		huh.NewText().Title("Description").Value(&in.Description).Lines(4),
		huh.NewSelect[string]().Title("Priority").Options(options...).Value(&priority),
		huh.NewInput().Title("Due").Placeholder("tomorrow 17:00, +3d, 2026-03-01T09:00").Value(due).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := dateparse.ParseDue(s)
			return err
		}),
	).Title("New Task"))
	if err != nil {
		return err
	}
	in.Priority = models.Priority(priority)
	return nil
}

// confirm asks a yes/no question.
func confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Delete").Negative("Keep").Value(&ok),
	))
	return ok, err
}
