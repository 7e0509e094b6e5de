package cmd

import (
	"fmt"
	"os"

	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/render"
	"github.com/marcus/tmc/internal/view"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <task-id>",
	Aliases: []string{"view", "get"},
	Short:   "Display a task with its description",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
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

		task, err := a.ctl.Task(cmd.Context(), args[0])
		if err != nil {
			return failQuiet(jsonOutput, err)
		}

		switch {
		case jsonOutput:
			return output.JSON(task)
		case mustBool(cmd, "card"):
			fmt.Println(render.Paint(render.TaskCard(*task), output.TerminalWidth(80)))
		default:
			fmt.Print(output.FormatTaskLong(*task, output.TerminalWidth(80)))
		}
		return nil
	},
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func init() {
	showCmd.Flags().Bool("card", false, "Render the task as a card")
	showCmd.Flags().Bool("json", false, "JSON output")

	rootCmd.AddCommand(showCmd)
}
