package domain

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// CommandFunc is the callback executed when a menu entry or remote trigger
// fires a command.
type CommandFunc func(ctx context.Context) error

// Command types understood by the menu generator.
const (
	// CommandTypeDefault places the command in its owning app's group.
	CommandTypeDefault = "default"
	// CommandTypeContextMenu places the command inside the
	// "Current Context" submenu.
	CommandTypeContextMenu = "context_menu"
)

// CommandProperties carries the metadata a sub-application registers
// alongside its callback. Keys use "mapstructure" tags so raw property
// maps from configuration can be decoded directly.
type CommandProperties struct {
	// App is the display name of the owning sub-application. Commands
	// without an app fall into the "Other Items" menu group.
	App         string `mapstructure:"app"`
	Type        string `mapstructure:"type"`
	Description string `mapstructure:"description"`
	Icon        string `mapstructure:"icon"`
}

// DecodeCommandProperties converts a raw property map into typed
// properties. Unknown keys are ignored rather than rejected; apps ship
// properties the engine has no opinion about.
func DecodeCommandProperties(raw map[string]any) (CommandProperties, error) {
	var props CommandProperties
	if err := mapstructure.Decode(raw, &props); err != nil {
		return CommandProperties{}, fmt.Errorf("invalid command properties: %w", err)
	}
	if props.Type == "" {
		props.Type = CommandTypeDefault
	}
	return props, nil
}

// Command pairs a registered callback with its properties.
type Command struct {
	Name       string
	Callback   CommandFunc
	Properties CommandProperties
}

// AppName returns the owning app's display name, or "" when ungrouped.
func (c Command) AppName() string {
	return c.Properties.App
}

// IsContextMenu reports whether the command belongs in the context submenu.
func (c Command) IsContextMenu() bool {
	return c.Properties.Type == CommandTypeContextMenu
}
