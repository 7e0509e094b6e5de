package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcus/tmc/internal/input"
	"github.com/marcus/tmc/internal/models"
	"github.com/marcus/tmc/internal/output"
	"github.com/marcus/tmc/internal/view"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session token",
	Long: `Log in with a username and password. Missing values are prompted for
when running in a terminal.

Examples:
  tmc login -u ada
  echo "$PASS" | tmc login -u ada --password-stdin`,
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
			p, err := input.FirstLine(os.Stdin)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			password = p
		}
		username = strings.TrimSpace(username)

		if (username == "" || password == "") && canPrompt() {
			if err := promptLogin(&username, &password); err != nil {
				output.Error("%v", err)
				return err
			}
		}

		a, err := openApp(nil)
		if err != nil {
			return fail(false, err)
		}
		defer a.Close()

		return a.ctl.Login(cmd.Context(), strings.TrimSpace(username), password)
	},
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create an account and log in",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var creds models.SignupCredentials
		creds.Username, _ = cmd.Flags().GetString("username")
		creds.Email, _ = cmd.Flags().GetString("email")
		creds.Password, _ = cmd.Flags().GetString("password")
		if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
			p, err := input.FirstLine(os.Stdin)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			creds.Password = p
		}

		if (creds.Username == "" || creds.Email == "" || creds.Password == "") && canPrompt() {
			if err := promptSignup(&creds); err != nil {
				output.Error("%v", err)
				return err
			}
		}
		creds.Username = strings.TrimSpace(creds.Username)
		creds.Email = strings.TrimSpace(creds.Email)

		a, err := openApp(nil)
		if err != nil {
			return fail(false, err)
		}
		defer a.Close()

		return a.ctl.Signup(cmd.Context(), creds)
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the stored session token",
	GroupID: "auth",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(nil)
		if err != nil {
			return fail(false, err)
		}
		defer a.Close()

		if err := a.ctl.Logout(); err != nil {
			output.Error("clear token: %v", err)
			return err
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the session and signed-in account",
	GroupID: "auth",
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

		user, err := a.ctl.CurrentUser(cmd.Context())
		if err != nil {
			return failQuiet(jsonOutput, err)
		}
		if jsonOutput {
			return output.JSON(user)
		}

		fmt.Printf("Logged in as %s <%s>\n", user.Username, user.Email)
		fmt.Printf("API: %s\n", apiURL())
		if exp, ok := a.sess.Expiry(); ok {
			fmt.Printf("Session expires %s\n", exp.Local().Format("Mon Jan 2 3:04 PM"))
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password (prefer --password-stdin)")
	loginCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	signupCmd.Flags().StringP("username", "u", "", "Username")
	signupCmd.Flags().StringP("email", "e", "", "Email address")
	signupCmd.Flags().StringP("password", "p", "", "Password (prefer --password-stdin)")
	signupCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")

	statusCmd.Flags().Bool("json", false, "JSON output")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, statusCmd)
}
