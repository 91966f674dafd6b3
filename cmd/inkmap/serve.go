package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/inkmap/internal/presentation/tui"
	httpAdapter "github.com/aretw0/inkmap/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coordinate HTTP API",
	Long: `Serves the coordinate API over the configured store:
  POST /add_coordinates/          save a word's coordinates
  GET  /coordinates/{word_id}/    load them
  POST /delete_coordinate/        remove them
  GET  /words/                    list annotated words
  POST /stitch/                   order freehand strokes into one path
  GET  /events[?word_id=...]      live updates (server-sent events), all words without word_id
  GET  /ws/coordinates/{word_id}  live updates (websocket)
  GET  /health, /info             liveness and version
  GET  /metrics                   Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, stack, err := setup(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			tui.PrintBanner(cmd.ErrOrStderr())
		}

		handler := httpAdapter.NewHandler(stack.Store,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithGatherer(stack.Metrics),
		)
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting inkmap server", "addr", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			logger.Info("inkmap server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
