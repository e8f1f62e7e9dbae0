package cli

import (
	"errors"
	"os"

	"github.com/chorify/chorify/internal/config"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	var server, logLevel, sessionFile, timeout string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage CLI configuration settings like the server address.

The address may omit the scheme and the /api/ path:
  chorify config --server localhost:8000
  chorify config --server https://chorify.example.com/api/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" && logLevel == "" && sessionFile == "" && timeout == "" {
				return showConfig(cmd)
			}
			return writeConfig(cmd, server, logLevel, sessionFile, timeout)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Set the API address (e.g., chorify.example.com or localhost:8000)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Set the log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&sessionFile, "session-file", "", "Store the session token in this file")
	cmd.Flags().StringVar(&timeout, "timeout", "", "Set the request timeout (e.g., 30s)")
	return cmd
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetDefaultConfigPath()
}

// writeConfig merges the given settings into the config file.
func writeConfig(cmd *cobra.Command, server, logLevel, sessionFile, timeout string) error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, config.ErrNotConfigured) {
			return err
		}
		cfg = &config.ConfigParam{}
	}
	if server != "" {
		cfg.APIURL = server
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if sessionFile != "" {
		cfg.SessionFile = sessionFile
	}
	if timeout != "" {
		cfg.Timeout = timeout
	}
	if cfg.APIURL == "" {
		return config.ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(configPath); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(cmd.OutOrStdout(), map[string]string{
			"server":      cfg.APIURL,
			"config_file": configPath,
		})
	} else {
		cmd.Printf("Server configured: %s\n", cfg.APIURL)
		cmd.Printf("Config file: %s\n", configPath)
	}
	return nil
}

func showConfig(cmd *cobra.Command) error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, config.ErrNotConfigured) || errors.Is(err, os.ErrNotExist) {
			return failWith(cmd, err.Error())
		}
		return err
	}

	if jsonOutput {
		printResult(cmd.OutOrStdout(), cfg)
		return nil
	}
	cmd.Printf("Server: %s\n", cfg.APIURL)
	cmd.Printf("Log level: %s\n", cfg.LogLevel)
	cmd.Printf("Timeout: %s\n", cfg.Timeout)
	if cfg.SessionFile != "" {
		cmd.Printf("Session file: %s\n", cfg.SessionFile)
	}
	cmd.Printf("Config file: %s\n", configPath)
	return nil
}
