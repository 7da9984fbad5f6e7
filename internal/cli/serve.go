package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fxtracker/internal/api"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			tracker := requireTracker(app, output)
			if tracker == nil {
				return nil
			}

			if addr == "" {
				addr = app.Config.Server.Addr
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if err := app.Hub.Start(ctx); err != nil {
				return err
			}
			defer app.Hub.Stop()

			server := api.NewServer(api.Config{
				Addr:         addr,
				ReadTimeout:  time.Duration(app.Config.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(app.Config.Server.WriteTimeout) * time.Second,
			}, tracker, app.Hub, app.Logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				app.Logger.Info().Str("signal", sig.String()).Msg("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
