package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
)

// ErrAlreadyHandled is returned by commands that already told the user what
// went wrong. Execute only sets the exit code.
var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var dimLabel = color.New(color.Faint)

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chorify [command] [flags]",
		Short: "Chorify CLI - shopping lists and to-dos from the command line",
		Long: `Chorify CLI manages your Chorify shopping lists and to-do items.

Examples:
  # Point the CLI at a server
  chorify config --server chorify.example.com

  # Create an account and log in
  chorify signup --username ann --email ann@example.com --password s3cretpass --password-confirm s3cretpass
  chorify login --username ann --password s3cretpass

  # Work with shopping lists
  chorify shopping create --name Groceries --item milk=2 --item eggs=12
  chorify shopping list

  # Work with to-dos
  chorify todo create --description "Pay rent" --due 2024-06-01
  chorify todo done 3

  # Interactive mode
  chorify tui`,
		PersistentPreRunE: loadApp,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newShoppingCmd())
	rootCmd.AddCommand(newTodoCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newDevServerCmd())
	return rootCmd
}

// Execute runs the CLI and exits with status 1 on failure.
// This is called by main.main().
func Execute() {
	rootCmd := newRootCmd()
	rootCmd.SilenceErrors = true // Prevent Cobra from printing the error
	rootCmd.SilenceUsage = true  // Prevent Cobra from printing usage on error
	rootCmd.SetOut(os.Stdout)

	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(os.Stdout, map[string]any{
				"result": 0,
				"error":  err.Error(),
			})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of chorify",
		Run: func(cmd *cobra.Command, args []string) {
			configPath := configFile
			if configPath == "" {
				configPath = defaultConfigPath()
			}

			if jsonOutput {
				printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"config_file": configPath,
				})
			} else {
				cmd.Printf("chorify CLI %s\n", getCLIVersion())
				cmd.Printf("Config file: %s\n", configPath)
			}
		},
	}
}

// printJSON writes data as indented JSON
func printJSON(w io.Writer, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, string(jsonData))
}

// printResult writes the standard {"result": 1, "value": ...} envelope.
func printResult(w io.Writer, value any) {
	printJSON(w, map[string]any{
		"result": 1,
		"value":  value,
	})
}

// failWith prints msg as an error and returns ErrAlreadyHandled.
func failWith(cmd *cobra.Command, msg string) error {
	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]any{
			"result": 0,
			"error":  msg,
		})
	} else {
		errorLabel.Fprintln(cmd.ErrOrStderr(), msg)
	}
	return ErrAlreadyHandled
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
