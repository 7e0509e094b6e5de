package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Full-screen task manager",
	Long: `Launch the full-screen client: login and signup forms, the task
dashboard and the new task form.

Key bindings (dashboard):
  ↑/↓ or j/k     Select task
  n              New task
  d              Delete selected task (asks y/n)
  r              Refresh
  L              Logout
  ?              Toggle help
  q              Quit

Forms:
  ctrl+t         Switch between login and sign up
  esc            Back to the task list
  ctrl+c         Quit`,
	GroupID: "tasks",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		queue := &tui.Queue{}
		a, err := openApp(queue)
		if err != nil {
			return fail(false, err)
		}
		defer a.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		a.ctl.SetListOptions(apiclient.ListOptions{Limit: limit})

		p := tea.NewProgram(tui.New(a.ctl, queue), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running ui: %w", err)
		}
		return nil
	},
}

func init() {
	uiCmd.Flags().IntP("limit", "n", 0, "Maximum number of tasks to load (0 = server default)")

	rootCmd.AddCommand(uiCmd)
}
