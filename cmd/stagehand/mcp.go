package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardenfx/stagehand"
	mcpadapter "github.com/ardenfx/stagehand/pkg/adapters/mcp"
	"github.com/ardenfx/stagehand/pkg/launcher"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the integration over the Model Context Protocol",
	Long: `Mcp runs a headless engine and serves it to automation agents: tools
to list and trigger pipeline commands, inspect the active context and
query the next publish version. The stdio transport suits editor and
agent integrations; sse serves over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(settings)
		transport, _ := cmd.Flags().GetString("transport")
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
		}

		opts := []mcpadapter.ServerOption{}
		if publisher, err := integration.Publisher(); err == nil {
			opts = append(opts, mcpadapter.WithVersionFunc(publisher.NextVersionFor))
		} else {
			logger.Debug("next_version tool disabled", "reason", err)
		}
		server := mcpadapter.NewServer(integration, stagehand.Version, opts...)

		switch transport {
		case "stdio":
			logger.Info("mcp server on stdio")
			return server.ServeStdio()
		case "sse":
			logger.Info("mcp server on sse", "port", port)
			return server.ServeSSE(ctx, port)
		default:
			return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
		}
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport to use: stdio or sse")
	mcpCmd.Flags().Int("port", 8733, "Port for the sse transport")
	rootCmd.AddCommand(mcpCmd)
}
