package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardenfx/stagehand"
	httpadapter "github.com/ardenfx/stagehand/pkg/adapters/http"
	"github.com/ardenfx/stagehand/pkg/launcher"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the integration over HTTP",
	Long: `Serve runs a headless engine and exposes its state over a small REST
API (status, context, commands, metrics). When the launch contract is
present in the environment the engine bootstraps from it; otherwise the
server starts idle and reports a stopped status until a command arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(settings)
		port, _ := cmd.Flags().GetInt("port")

		host := newBatchHost(false)
		integration, err := stagehand.New(host, nil,
			stagehand.WithLogger(logger),
			stagehand.WithSettings(settings),
			stagehand.WithHostEvents(host))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, ok := os.LookupEnv(launcher.EnvContext); ok {
			if err := integration.Bootstrap(ctx); err != nil {
				return err
			}
			defer integration.Stop(context.Background())
		} else {
			logger.Info("no launch environment; serving idle",
				"hint", launcher.EnvContext+" not set")
		}

		handler := httpadapter.NewHandler(integration,
			httpadapter.WithServerLogger(logger),
			httpadapter.WithGatherer(integration.Gatherer()))

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", server.Addr)
			serverErrors <- server.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
			logger.Info("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().Int("port", 8732, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
