package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/marcus/tmc/internal/apiclient"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/render"
	"github.com/marcus/tmc/internal/view"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your tasks",
	Long: `List your tasks, newest first as the API returns them.

Examples:
  tmc list
  tmc list --limit 20 --skip 20
  tmc list --cards
  tmc list --json`,
	GroupID: "tasks",
	Args:    cobra.NoArgs,
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

		skip, _ := cmd.Flags().GetInt("skip")
		limit, _ := cmd.Flags().GetInt("limit")
		if skip < 0 || limit < 0 {
			return fail(jsonOutput, inputError{fmt.Errorf("--skip and --limit must not be negative")})
		}
		a.ctl.SetListOptions(apiclient.ListOptions{Skip: skip, Limit: limit})

		if err := a.ctl.Refresh(cmd.Context()); err != nil {
			return failQuiet(jsonOutput, err)
		}
		tasks := a.ctl.Tasks()

		if jsonOutput {
			return output.JSON(tasks)
		}

		if cards, _ := cmd.Flags().GetBool("cards"); cards {
			width := output.TerminalWidth(80)
			fmt.Println(render.Paint(render.Stats(render.PriorityCounts(tasks)), width))
			fmt.Println()
			fmt.Println(render.Paint(render.TaskList(tasks), width))
			return nil
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks yet")
			return nil
		}
		now := time.Now()
		for _, task := range tasks {
			fmt.Println(output.FormatTaskShort(task, now))
		}
		c := render.PriorityCounts(tasks)
		fmt.Printf("\n%d tasks: %d high, %d medium, %d low\n", c.Total(), c.High, c.Medium, c.Low)
		return nil
	},
}

func init() {
	listCmd.Flags().Int("skip", 0, "Number of tasks to skip")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum number of tasks (0 = server default)")
	listCmd.Flags().Bool("cards", false, "Render tasks as cards")
	listCmd.Flags().Bool("json", false, "JSON output")

	rootCmd.AddCommand(listCmd)
}
