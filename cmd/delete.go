package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <task-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task. You are asked to confirm unless --yes is given; without a
terminal --yes is required.`,
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		a, err := openApp(nil)
		if err != nil {
			return fail(false, err)
		}
		defer a.Close()

		if err := a.requireSession(false); err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !canPrompt() {
				return fail(false, inputError{fmt.Errorf("refusing to delete %s without --yes", id)})
			}
			ok, err := confirm(fmt.Sprintf("Are you sure you want to delete task %s?", id))
			if err != nil {
				return fail(false, err)
			}
			if !ok {
				fmt.Println("Kept", id)
				return nil
			}
		}

		return a.ctl.DeleteTask(cmd.Context(), id)
	},
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation")

	rootCmd.AddCommand(deleteCmd)
}
