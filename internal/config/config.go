// Package config loads the engine settings file. A missing file yields
// defaults; raw setting maps coming from other channels (launcher
// payloads, remote adapters) decode through mapstructure.
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultMenuName is the title of the top-level pipeline menu.
const DefaultMenuName = "Production Tracking"

// LauncherSettings configures host discovery.
type LauncherSettings struct {
	// Templates maps a GOOS name to executable match templates with
	// {version}/{product} tokens.
	Templates map[string][]string `yaml:"templates" mapstructure:"templates"`

	// Products lists supported product display names.
	Products []string `yaml:"products" mapstructure:"products"`
}

// Settings is the engine configuration.
type Settings struct {
	// MenuName is the top-level menu title.
	MenuName string `yaml:"menu_name" mapstructure:"menu_name"`

	// DebugLogging enables debug-level output.
	DebugLogging bool `yaml:"debug_logging" mapstructure:"debug_logging"`

	// CompatibilityDialogMinVersion gates the above-maximum warning
	// dialog: the dialog only shows when the host major version is at
	// least this value. Log warnings are not affected.
	CompatibilityDialogMinVersion int `yaml:"compatibility_dialog_min_version" mapstructure:"compatibility_dialog_min_version"`

	// WorkTemplate is the work-file path template used by the publish
	// hook.
	WorkTemplate string `yaml:"work_template" mapstructure:"work_template"`

	Launcher LauncherSettings `yaml:"launcher" mapstructure:"launcher"`
}

// Defaults returns the settings used when no file is present.
func Defaults() Settings {
	return Settings{
		MenuName:                      DefaultMenuName,
		CompatibilityDialogMinVersion: 4,
	}
}

// Load reads a YAML settings file. A missing file is not an error and
// returns Defaults.
func Load(path string) (Settings, error) {
	settings := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings %q: %w", path, err)
	}
	if settings.MenuName == "" {
		settings.MenuName = DefaultMenuName
	}
	return settings, nil
}

// Decode converts a raw settings map (e.g. from a launch payload) into
// typed Settings on top of the defaults.
func Decode(raw map[string]any) (Settings, error) {
	settings := Defaults()
	if err := mapstructure.Decode(raw, &settings); err != nil {
		return settings, fmt.Errorf("invalid settings map: %w", err)
	}
	if settings.MenuName == "" {
		settings.MenuName = DefaultMenuName
	}
	return settings, nil
}
