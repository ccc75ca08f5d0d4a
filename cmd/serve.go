package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamusis/socsel/internal/server"
	"github.com/kamusis/socsel/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the selector as a JSON API",
	Long: `Start an HTTP server on listen_addr (default 127.0.0.1:8080).

Endpoints:
  GET    /healthz
  GET    /api/state
  GET    /api/requirements
  GET    /api/match[?all=1]
  GET    /api/report?format=text|markdown|json
  GET    /api/socs/{id}/utilization
  POST   /api/selection/{id}        toggle a feature
  DELETE /api/selection             clear the selection

The server shares the state file with the CLI; writes take the same lock.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var flagServeAddr string

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (overrides listen_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.ListenAddr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	srv := server.New(server.Options{
		StatePath:   cfg.StatePath,
		LockTimeout: store.DefaultLockTimeout,
		Locale:      cfg.Locale,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()
	printOK("", fmt.Sprintf("listening on http://%s (state: %s)", addr, cfg.StatePath))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	printInfo("", "server stopped")
	return nil
}
