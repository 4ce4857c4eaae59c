package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/ardenfx/stagehand/internal/config"
	"github.com/ardenfx/stagehand/pkg/launcher"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover installed Katana versions",
	Long: `Scan walks the install templates from the settings file (or the
standard per-OS locations) and lists every launchable installation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(settings)

		scanner := newScanner(settings, logger)
		installs, err := scanner.Scan()
		if err != nil {
			return err
		}
		if len(installs) == 0 {
			fmt.Println("No supported installations found.")
			return nil
		}

		sort.Slice(installs, func(i, j int) bool {
			return installs[i].Version.Compare(installs[j].Version) > 0
		})
		for _, sw := range installs {
			fmt.Printf("%-16s %s\n", sw.DisplayName(), sw.Path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// newScanner builds a scanner from the settings, falling back to the
// standard install locations when none are configured.
func newScanner(settings config.Settings, logger *slog.Logger) *launcher.Scanner {
	templates := settings.Launcher.Templates
	if len(templates) == 0 {
		templates = launcher.DefaultTemplates()
	}

	opts := []launcher.ScannerOption{launcher.WithScannerLogger(logger)}
	if len(settings.Launcher.Products) > 0 {
		opts = append(opts, launcher.WithProducts(settings.Launcher.Products...))
	}
	return launcher.NewScanner(templates, opts...)
}
