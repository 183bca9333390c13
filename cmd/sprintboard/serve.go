package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"sprintboard/internal/server"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

Examples:
  # Serve with defaults (:8080, data/sprintboard.db)
  sprintboard serve

  # Serve from a config file on another port
  sprintboard serve --config sprintboard.yaml --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	if addr != "" {
		a.cfg.Server.Addr = addr
	}

	srv := server.New(a.boards, a.logger, a.metrics)
	httpServer := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: withCORS(srv.Engine(), a.cfg.CORS.AllowedOrigins),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("db", a.cfg.Database.Path))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return err
	}

	a.logger.Info("server stopped")
	return nil
}

// withCORS lets browsers on origins call the API; no origins means any.
func withCORS(h http.Handler, origins []string) http.Handler {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Actor-ID", "X-Actor-Role"},
		ExposedHeaders: []string{"X-Request-ID"},
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return cors.New(opts).Handler(h)
}
