// =============================================================================
// Financial Dashboard - Serve Command
// =============================================================================
//
// This file defines the 'serve' command, which runs the HTTP dashboard until
// SIGINT or SIGTERM is received.
//
// COMMAND USAGE:
//   dashboard serve [--addr :8501]
//
// LIFECYCLE:
//   1. Build the metrics registry and the dashboard router
//   2. Listen on server.addr
//   3. On signal, stop accepting connections and wait up to
//      server.shutdown_timeout for in-flight requests
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/financial-dashboard/internal/dashboard"
	"github.com/ginjaninja78/financial-dashboard/internal/logging"
	"github.com/ginjaninja78/financial-dashboard/internal/metrics"
)

// serveAddr overrides server.addr when set.
var serveAddr string

// serveCmd represents the 'serve' command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the financial dashboard over HTTP",
	Long: `The serve command starts the HTTP dashboard. Every page load reads the
data file again, so changes to the file show up on the next refresh.

Endpoints:
  /                          dashboard page
  /chart.svg                 revenue chart
  /api/sample?rows=N         sample rows (JSON)
  /api/revenue-by-segment    revenue by segment (JSON)
  /healthz                   liveness probe
  /metrics                   Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			appConfig.Server.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(
		&serveAddr,
		"addr",
		"",
		"Listen address (overrides server.addr)",
	)
}

// runServe serves the dashboard until ctx is cancelled.
func runServe(ctx context.Context) error {
	cfg := appConfig.Server

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      dashboard.New(appConfig, logger, metrics.New()).Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.LogOperation(logger, "dashboard listening",
			slog.String("addr", cfg.Addr),
			slog.String("data", appConfig.Data.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve on %s: %w", cfg.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})

	return g.Wait()
}
