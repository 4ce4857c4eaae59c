// Package registry manages the commands contributed by installed
// sub-applications. The menu generator reads it once when building the
// menu; remote adapters (HTTP, MCP) execute through it directly.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ardenfx/stagehand/pkg/domain"
)

// Registry manages the available commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]domain.Command
}

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		commands: make(map[string]domain.Command),
	}
}

// Register adds a command to the registry.
// If a command with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn domain.CommandFunc, props domain.CommandProperties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if props.Type == "" {
		props.Type = domain.CommandTypeDefault
	}
	r.commands[name] = domain.Command{Name: name, Callback: fn, Properties: props}
}

// Execute looks up a command by name and executes it.
// Returns an error if the command is not found; callback errors propagate
// unwrapped so the host's dispatch can decide how to surface them.
func (r *Registry) Execute(ctx context.Context, name string) error {
	r.mu.RLock()
	cmd, ok := r.commands[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("command not found: %s", name)
	}
	return cmd.Callback(ctx)
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (domain.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns all registered commands in name order.
func (r *Registry) List() []domain.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear discards all registered commands. Called on engine teardown.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = make(map[string]domain.Command)
}
