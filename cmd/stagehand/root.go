package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ardenfx/stagehand/internal/config"
	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Stagehand integrates the production pipeline with Katana",
	Long: `Stagehand discovers Katana installations, launches them with a
pipeline context attached, and bootstraps the in-host engine that builds
the production menu and keeps the context in sync with the opened scene.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "stagehand.yaml", "Path to the settings file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadSettings reads the settings file named by the --config flag.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(path)
	if err != nil {
		return settings, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		settings.DebugLogging = true
	}
	return settings, nil
}

// newLogger builds the CLI logger from the settings.
func newLogger(settings config.Settings) *slog.Logger {
	level := slog.LevelInfo
	if settings.DebugLogging {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
