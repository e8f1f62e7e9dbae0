package cli

import (
	"context"
	"net/http"

	"github.com/chorify/chorify/internal/auth"
	"github.com/chorify/chorify/internal/common/httpclient"
	"github.com/chorify/chorify/internal/common/logtrace"
	"github.com/chorify/chorify/internal/config"
	"github.com/chorify/chorify/internal/guard"
	"github.com/chorify/chorify/internal/resources"
	"github.com/chorify/chorify/internal/session"
	"github.com/spf13/cobra"
)

// appEnv is everything a command needs once the configuration is loaded. It is
// built once per invocation and shared by all components.
type appEnv struct {
	cfg         *config.ConfigParam
	sessionPath string
	session     *session.Session
	client      *httpclient.HTTPClient
	auth        *auth.Flow
	guard       *guard.Guard
}

var app *appEnv

// transport overrides the HTTP transport of the API client. Tests only.
var transport http.RoundTripper

// commands that run without a loaded configuration
var noConfigCommands = map[string]bool{
	"config":     true,
	"version":    true,
	"dev-server": true,
	"help":       true,
}

func loadApp(cmd *cobra.Command, args []string) error {
	for c := cmd; c != nil; c = c.Parent() {
		if noConfigCommands[c.Name()] {
			logtrace.InitLogger(logtrace.DefaultLevel, true)
			return nil
		}
	}
	if app != nil {
		return nil
	}

	if err := config.LoadEnvFiles(); err != nil {
		return err
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logtrace.InitLogger(cfg.LogLevel, true)

	sessionPath, err := cfg.GetSessionPath(session.GetDefaultSessionPath)
	if err != nil {
		return err
	}
	storage, err := session.OpenFileStorage(sessionPath)
	if err != nil {
		return err
	}
	sess := session.New(storage, logtrace.Component("session"))

	client, err := httpclient.NewClient(cfg.APIURL, sess, httpclient.ClientOptions{
		Timeout:   cfg.GetTimeout(),
		Transport: transport,
	})
	if err != nil {
		return err
	}

	app = &appEnv{
		cfg:         cfg,
		sessionPath: sessionPath,
		session:     sess,
		client:      client,
		auth:        auth.NewFlow(client, sess, logtrace.Component("auth")),
		guard:       guard.New(sess),
	}
	return nil
}

func closeApp() {
	app = nil
}

// requireLogin loads the app and applies the route guard. Protected command
// groups use it as their PersistentPreRunE.
func requireLogin(cmd *cobra.Command, args []string) error {
	if err := loadApp(cmd, args); err != nil {
		return err
	}
	if app.guard.Authorize() == guard.RedirectToLogin {
		return failWith(cmd, "You are not logged in. Run \"chorify login\" first.")
	}
	return nil
}

func (a *appEnv) shoppingLists() *resources.ShoppingListController {
	return resources.NewShoppingListController(a.client, logtrace.Component("resources"))
}

func (a *appEnv) todoLists() *resources.ToDoListController {
	return resources.NewToDoListController(a.client, logtrace.Component("resources"))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func defaultConfigPath() string {
	p, err := config.GetDefaultConfigPath()
	if err != nil {
		return "unknown"
	}
	return p
}
