package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chorify/chorify/internal/apitest"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newDevServerCmd creates the dev-server command, which serves an in-memory
// Chorify API for trying the CLI locally.
func newDevServerCmd() *cobra.Command {
	var addr string
	var origins []string
	var users []string
	var noContent bool

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory Chorify API for local testing",
		Long: `Run an in-memory Chorify API. All data is lost when the server stops.

Example:
  chorify dev-server --addr :8000 --user ann:s3cretpass
  chorify config --server localhost:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := apitest.NewServer(apitest.Options{
				AllowedOrigins:        origins,
				RegistrationNoContent: noContent,
			})
			for _, u := range users {
				name, password, ok := strings.Cut(u, ":")
				if !ok || name == "" || password == "" {
					return fmt.Errorf("invalid --user %q, expected name:password", u)
				}
				if _, err := s.CreateUser(name, "", password); err != nil {
					return err
				}
			}
			return serve(commandContext(cmd), cmd, addr, s)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Address to listen on")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allow browser requests from these origins")
	cmd.Flags().StringArrayVar(&users, "user", nil, "Create a user as name:password (repeatable)")
	cmd.Flags().BoolVar(&noContent, "registration-no-content", false, "Answer registrations with 204 and no token")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, addr string, handler http.Handler) error {
	slog := log.With().Str("state", "init").Logger()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("addr", addr).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()
	cmd.Printf("Serving the Chorify API at http://%s/api/\n", addr)

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
	}

	// Give outstanding requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	slog.Info().Msg("server stopped")
	return nil
}
