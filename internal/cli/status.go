package cli

import (
	"github.com/chorify/chorify/internal/guard"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured server and whether you are logged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			loggedIn := app.guard.Authorize() == guard.Allow
			if jsonOutput {
				printResult(cmd.OutOrStdout(), map[string]any{
					"server":       app.client.BaseURL(),
					"session_file": app.sessionPath,
					"logged_in":    loggedIn,
				})
				return nil
			}

			cmd.Printf("Server: %s\n", app.client.BaseURL())
			cmd.Printf("Session file: %s\n", app.sessionPath)
			if loggedIn {
				okLabel.Fprintln(cmd.OutOrStdout(), "Logged in")
			} else {
				dimLabel.Fprintln(cmd.OutOrStdout(), "Not logged in")
			}
			return nil
		},
	}
}
