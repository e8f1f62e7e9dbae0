package cli

import (
	"github.com/chorify/chorify/internal/auth"
	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the Chorify server",
		Long: `Log in with a username or e-mail address and a password.
The session token is stored locally and sent with every request until you log out.

Example:
  chorify login --username ann --password s3cretpass`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.auth.SignIn(commandContext(cmd), username, password)
			return reportAuth(cmd, res, "Login successful")
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username or e-mail address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

// newSignupCmd creates the signup command
func newSignupCmd() *cobra.Command {
	var req auth.SignUpRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Chorify account",
		Long: `Create a new account. When the server returns a token you are logged in right away.

Example:
  chorify signup --username ann --email ann@example.com --password s3cretpass --password-confirm s3cretpass`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.auth.SignUp(commandContext(cmd), req)
			if res.OK() && !app.session.IsAuthenticated() {
				return reportAuth(cmd, res, "Account created. Log in with \"chorify login\".")
			}
			return reportAuth(cmd, res, "Account created")
		},
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "E-mail address")
	cmd.Flags().StringVarP(&req.Password1, "password", "p", "", "Password")
	cmd.Flags().StringVar(&req.Password2, "password-confirm", "", "Password again")
	return cmd
}

// newLogoutCmd creates the logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.auth.SignOut()
			return reportAuth(cmd, res, "Logged out")
		},
	}
}

func reportAuth(cmd *cobra.Command, res auth.Result, okMsg string) error {
	if !res.OK() {
		return failWith(cmd, res.Message)
	}
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{
			"result":        1,
			"message":       okMsg,
			"navigate":      res.Navigate.String(),
			"authenticated": app.session.IsAuthenticated(),
		})
		return nil
	}
	okLabel.Fprintf(cmd.OutOrStdout(), "✓ %s\n", okMsg)
	return nil
}
