// Package config loads the Chorify client configuration from a TOML file,
// a .env file and CHORIFY_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/chorify/chorify/internal/common/apperrors"
	"github.com/chorify/chorify/internal/common/logtrace"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.toml"

// DefaultTimeout is used when the config does not set a request timeout.
const DefaultTimeout = "30s"

// Environment variables that override the config file.
const (
	EnvAPIURL      = "CHORIFY_API_URL"
	EnvLogLevel    = "CHORIFY_LOG_LEVEL"
	EnvSessionFile = "CHORIFY_SESSION_FILE"
)

// ConfigParam holds the client configuration
type ConfigParam struct {
	// Version of this configuration file format
	FormatVersion string `toml:"format_version"`

	// Base address of the REST API, e.g. "https://chorify.example.com/api/"
	APIURL string `toml:"api_url" validate:"required,url"`

	// Where the session token is kept. Empty means the default location.
	SessionFile string `toml:"session_file,omitempty"`

	// zerolog level name
	LogLevel string `toml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`

	// Per request timeout, e.g. "30s" or "2m"
	Timeout string `toml:"timeout,omitempty"`
}

// ErrNotConfigured is returned when no API address is known.
var ErrNotConfigured = apperrors.ErrConfig.New("chorify is not configured; run \"chorify config --server <url>\" first")

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/chorify on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "chorify", DefaultConfigFile), nil
}

// LoadEnvFiles loads .env files into the process environment. Variables that
// are already set are kept. Missing files are ignored.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return apperrors.ErrConfig.MsgErr("unable to load "+f, err)
		}
	}
	return nil
}

// Load reads the config file, applies environment overrides and defaults and
// validates the result. A missing file is not an error as long as the
// environment supplies the API address. file defaults to GetDefaultConfigPath.
func Load(file string) (*ConfigParam, error) {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return nil, apperrors.ErrConfig.Err(err)
		}
	}

	cfg := &ConfigParam{}
	content, err := os.ReadFile(file)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, apperrors.ErrConfig.MsgErr("error parsing config file", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, apperrors.ErrConfig.MsgErr("error reading config file", err)
	}

	cfg.applyEnv()
	if cfg.APIURL == "" {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *ConfigParam) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvSessionFile); v != "" {
		cfg.SessionFile = v
	}
}

// Validate normalizes the configuration and checks it. Defaults are filled in
// for optional values.
func (cfg *ConfigParam) Validate() error {
	if cfg.FormatVersion == "" {
		cfg.FormatVersion = ConfigFormatVersion
	}
	if !IsFormatCompatible(cfg.FormatVersion) {
		return apperrors.ErrConfig.New("unsupported config file format version: " + cfg.FormatVersion)
	}
	cfg.APIURL = MorphServer(cfg.APIURL)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.LogLevel == "" {
		cfg.LogLevel = logtrace.DefaultLevel
	}
	if cfg.Timeout == "" {
		cfg.Timeout = DefaultTimeout
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.ErrConfig.New(fmt.Sprintf("invalid %s: %q", fieldName(verrs[0].Field()), verrs[0].Value()))
		}
		return apperrors.ErrConfig.Err(err)
	}
	if _, err := ParseDuration(cfg.Timeout); err != nil {
		return apperrors.ErrConfig.MsgErr("invalid timeout", err)
	}
	return nil
}

func fieldName(field string) string {
	switch field {
	case "APIURL":
		return "api_url"
	case "LogLevel":
		return "log_level"
	default:
		return strings.ToLower(field)
	}
}

// GetTimeout returns the request timeout.
func (cfg *ConfigParam) GetTimeout() time.Duration {
	d, err := ParseDuration(cfg.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// GetSessionPath returns where the session token is stored.
func (cfg *ConfigParam) GetSessionPath(defaultPath func() (string, error)) (string, error) {
	if cfg.SessionFile != "" {
		return cfg.SessionFile, nil
	}
	return defaultPath()
}

// WriteConfig writes the configuration to file with owner only permissions.
func (cfg *ConfigParam) WriteConfig(file string) error {
	if file == "" {
		return apperrors.ErrConfig.New("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}
	if err := os.WriteFile(file, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// MorphServer normalizes an API address. It adds a scheme when missing
// (http for loopback hosts, https otherwise), defaults an empty path to /api/
// and always ends the path with a slash so relative endpoints join correctly.
func MorphServer(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return server
	}
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		scheme := "https://"
		if isLoopback(server) {
			scheme = "http://"
		}
		server = scheme + server
	}

	u, err := url.Parse(server)
	if err != nil {
		return server
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/api/"
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

func isLoopback(server string) bool {
	host := server
	if i := strings.IndexAny(host, ":/"); i >= 0 {
		host = host[:i]
	}
	return host == "localhost" || host == "127.0.0.1"
}

// ParseDuration parses a Go duration ("30s", "1m30s") or a duration in the
// format "<number><unit>" where unit can be:
// - d: days
// - y: years
func ParseDuration(input string) (time.Duration, error) {
	if d, err := time.ParseDuration(input); err == nil {
		return d, nil
	}
	if len(input) < 2 {
		return 0, fmt.Errorf("invalid input format")
	}

	unit := input[len(input)-1:]
	value, err := strconv.Atoi(input[:len(input)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s", err)
	}

	switch unit {
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	case "y":
		// 1 year = 365 days
		return time.Duration(value) * 365 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}
}
