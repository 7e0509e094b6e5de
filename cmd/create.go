package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marcus/tmc/internal/dateparse"
	"github.com/marcus/tmc/internal/input"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/view"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add [title]",
	Aliases: []string{"create", "new"},
	Short:   "Create a task",
	Long: `Create a task. Without a title a form is shown when running in a terminal.

Due dates accept RFC 3339 ("2026-03-01T17:00:00Z"), local date and time
("2026-03-01 17:00"), a bare date (due 23:59 that day), relative offsets
(+3h, +2d, +1w, +1m), and today, tomorrow, next-week, next-month or a
weekday name, optionally followed by HH:MM.

Examples:
  tmc add "Pay rent" --priority high --due "friday 09:00"
  tmc add "Write report" -d @notes.md --due +3d
  tmc add`,
	GroupID: "tasks",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		var notify view.Notifier
		if jsonOutput {
			notify = output.NewNotifier(os.Stderr)
		}

		a, err := openApp(notify)
		if err != nil {
			return fail(jsonOutput, err)
		}
		defer a.Close()

		if err := a.requireSession(jsonOutput); err != nil {
			return err
		}

		var in models.TaskCreate
		if len(args) > 0 {
			in.Title = args[0]
		}
		if t, _ := cmd.Flags().GetString("title"); t != "" {
			in.Title = t
		}
		desc, _ := cmd.Flags().GetString("description")
		in.Description, err = input.Value(desc, os.Stdin)
		if err != nil {
			return fail(jsonOutput, inputError{err})
		}
		priorityStr, _ := cmd.Flags().GetString("priority")
		in.Priority, err = models.ParsePriority(priorityStr)
		if err != nil {
			return fail(jsonOutput, inputError{err})
		}
		due, _ := cmd.Flags().GetString("due")

		if strings.TrimSpace(in.Title) == "" && !jsonOutput && canPrompt() {
			if err := promptTask(&in, &due); err != nil {
				return fail(false, err)
			}
		}

		in, err = buildTaskCreate(in, due, time.Now())
		if err != nil {
			return fail(jsonOutput, inputError{err})
		}

		created, err := a.ctl.CreateTask(cmd.Context(), in)
		if err != nil {
			return failQuiet(jsonOutput, err)
		}
		if jsonOutput {
			return output.JSON(created)
		}
		fmt.Println(output.FormatTaskShort(*created, time.Now()))
		return nil
	},
}

// buildTaskCreate trims the text fields and resolves the due date text
// relative to now.
func buildTaskCreate(in models.TaskCreate, due string, now time.Time) (models.TaskCreate, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if due = strings.TrimSpace(due); due != "" {
		t, err := dateparse.ParseDueFrom(due, now)
		if err != nil {
			return in, fmt.Errorf("invalid --due: %w", err)
		}
		in.DueDate = &models.Timestamp{Time: t}
	}
	return in, nil
}

func init() {
	addCmd.Flags().StringP("title", "t", "", "Task title")
	addCmd.Flags().StringP("description", "d", "", "Description (markdown); - reads stdin, @file reads a file")
	addCmd.Flags().StringP("priority", "p", "medium", "Priority: high, medium, low")
	addCmd.Flags().String("due", "", "Due date (e.g. tomorrow 17:00, +3d, 2026-03-01T09:00)")
	addCmd.Flags().Bool("json", false, "JSON output")

	rootCmd.AddCommand(addCmd)
}
