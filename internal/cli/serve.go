package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mortise/tenon/internal/httpapi"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:           "serve",
		Short:         "Serve the session API over HTTP",
		Long:          `Expose the refinement engine as a JSON API over HTTP.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(rootOpts, cmd.ErrOrStderr())
			e, cleanup, err := openEngine(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			srv := &http.Server{
				Addr:    addr,
				Handler: httpapi.NewHandler(e, log),
			}

			serverErrors := make(chan error, 1)
			go func() {
				log.Info("server listening", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return &ExitError{Code: ExitCommandError, Message: "server failed", Err: err}

			case sig := <-shutdown:
				log.Info("shutdown", "signal", sig.String())
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					srv.Close()
					return &ExitError{Code: ExitCommandError, Message: "shutdown incomplete", Err: err}
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
