package main

import (
	"fmt"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/launcher"
	"github.com/spf13/cobra"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch Katana with a pipeline context attached",
	Long: `Launch discovers installed Katana versions, picks one (the newest by
default, or the one named with --version) and starts it with the launch
environment the in-host bootstrap expects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(settings)

		project, _ := cmd.Flags().GetString("project")
		if project == "" {
			return fmt.Errorf("--project is required")
		}
		entity, _ := cmd.Flags().GetString("entity")
		task, _ := cmd.Flags().GetString("task")
		wanted, _ := cmd.Flags().GetString("version")
		file, _ := cmd.Flags().GetString("file")

		installs, err := newScanner(settings, logger).Scan()
		if err != nil {
			return err
		}
		sw, err := pickInstall(installs, wanted)
		if err != nil {
			return err
		}

		pipelineCtx := &domain.Context{Project: project, Entity: entity, Task: task}
		info, err := launcher.PrepareLaunch(sw, "katana", pipelineCtx, file)
		if err != nil {
			return err
		}

		logger.Info("launching host",
			"software", sw.DisplayName(), "path", sw.Path, "context", pipelineCtx.String())
		if err := launcher.Launch(cmd.Context(), info); err != nil {
			return err
		}
		fmt.Printf("Launched %s for %s\n", sw.DisplayName(), pipelineCtx)
		return nil
	},
}

func init() {
	launchCmd.Flags().String("project", "", "Project name for the pipeline context")
	launchCmd.Flags().String("entity", "", "Entity (shot or asset) for the pipeline context")
	launchCmd.Flags().String("task", "", "Task for the pipeline context")
	launchCmd.Flags().String("version", "", `Katana version to launch, e.g. "6.0v2" (newest if empty)`)
	launchCmd.Flags().String("file", "", "Scene file to open after startup")
	rootCmd.AddCommand(launchCmd)
}

// pickInstall selects the requested version, or the newest one found.
func pickInstall(installs []launcher.SoftwareVersion, wanted string) (launcher.SoftwareVersion, error) {
	if len(installs) == 0 {
		return launcher.SoftwareVersion{}, fmt.Errorf("no supported installations found")
	}
	if wanted == "" {
		best := installs[0]
		for _, sw := range installs[1:] {
			if sw.Version.Compare(best.Version) > 0 {
				best = sw
			}
		}
		return best, nil
	}
	for _, sw := range installs {
		if sw.Version.String() == wanted {
			return sw, nil
		}
	}
	return launcher.SoftwareVersion{}, fmt.Errorf("version %q is not installed", wanted)
}
