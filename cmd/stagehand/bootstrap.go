package main

import (
	"fmt"

	"github.com/ardenfx/stagehand"
	"github.com/ardenfx/stagehand/pkg/adapters/console"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Start an engine from the launch environment",
	Long: `Bootstrap reads the launch contract written by "stagehand launch"
(SGTK_ENGINE, SGTK_CONTEXT, SGTK_FILE_TO_OPEN), starts an engine for that
context and prints the resulting production menu. Katana runs the same
code path from its startup script; this command exercises it from a
shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(settings)

		printBanner()

		host := newBatchHost(true)
		sink := console.NewSink()
		dialogs := console.NewDialogs()

		integration, err := stagehand.New(host, nil,
			stagehand.WithLogger(logger),
			stagehand.WithSettings(settings),
			stagehand.WithUI(sink, dialogs),
			stagehand.WithHostEvents(host))
		if err != nil {
			return err
		}

		if err := integration.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		defer integration.Stop(cmd.Context())

		pipelineCtx := integration.Context()
		fmt.Printf("Engine started for %s\n\n", pipelineCtx)
		return sink.Print(settings.MenuName)
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
