package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cube_navigator/internal/handlers"
	"cube_navigator/internal/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API",
	Long: `Starts the HTTP API, the WebSocket state stream and the telemetry
loop that persists the robot state. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := a.Close(); cerr != nil {
				a.log.Errorw("failed to close sqlite", "err", cerr)
			}
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, a)
	},
}

// runServer serves until ctx is done or a component fails.
func runServer(ctx context.Context, a *app) error {
	srv := &server.Server{WriteTimeout: a.cfg.WriteTimeout}
	router := handlers.NewHandler(a.services, a.log.Named("http")).InitRoutes()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.services.Telemetry.Run(ctx, a.cfg.Telemetry.Tick)
		return nil
	})
	g.Go(func() error {
		a.log.Infow("http server listening", "port", a.cfg.Port)
		return srv.Run(a.cfg.Port, router)
	})
	g.Go(func() error {
		<-ctx.Done()
		a.log.Infow("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
