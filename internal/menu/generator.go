// Package menu builds the host's pipeline menu tree from the registered
// commands. The generator renders into a ports.MenuSink so it never
// touches GUI toolkit types; the sink reports triggered actions back
// through an id table.
package menu

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"sort"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// FallbackGroup collects commands whose owning app is unknown.
const FallbackGroup = "Other Items"

// Generator builds and tears down the pipeline menu.
// Lifecycle: uninitialized -> root found-or-created -> populated ->
// destroyed. A destroyed generator must not be reused; the engine creates
// a fresh one per session.
type Generator struct {
	menuName    string
	sink        ports.MenuSink
	pipelineCtx *domain.Context
	commands    []domain.Command
	logger      *slog.Logger

	// open launches the platform file browser / URL handler. Injectable
	// for tests.
	open func(target string) error

	root      ports.Menu
	actions   *actionTable
	actionIDs map[string]ports.ActionID // lazily created, reused across menus
}

// Option configures the Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithOpener overrides the platform opener used by the jump actions.
func WithOpener(fn func(target string) error) Option {
	return func(g *Generator) { g.open = fn }
}

// NewGenerator creates a generator for the given sink and commands.
func NewGenerator(sink ports.MenuSink, menuName string, pipelineCtx *domain.Context, commands []domain.Command, opts ...Option) *Generator {
	g := &Generator{
		menuName:    menuName,
		sink:        sink,
		pipelineCtx: pipelineCtx,
		commands:    commands,
		logger:      logging.NewNop(),
		open:        platformOpen,
		actions:     newActionTable(),
		actionIDs:   make(map[string]ports.ActionID),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetupRootMenu finds an existing top-level menu with the generator's
// title or creates a new one. It never creates a duplicate.
func (g *Generator) SetupRootMenu() ports.Menu {
	if g.root != nil {
		return g.root
	}
	if existing, ok := g.sink.FindMenu(g.menuName); ok {
		g.root = existing
	} else {
		g.root = g.sink.NewMenu(g.menuName)
	}
	return g.root
}

// CreateMenu populates the root menu: the "Current Context" submenu, a
// separator, then the registered commands partitioned by owning app.
func (g *Generator) CreateMenu() {
	root := g.SetupRootMenu()
	root.Clear()
	g.sink.SetDispatcher(func(id ports.ActionID) {
		if err := g.actions.dispatch(id); err != nil {
			g.logger.Error("menu action failed", "error", err)
		}
	})

	ctxMenu := g.buildContextMenu(root)
	root.AddSeparator()

	byApp := map[string][]domain.Command{}
	for _, cmd := range g.commands {
		if cmd.IsContextMenu() {
			g.addToMenu(ctxMenu, cmd)
			continue
		}
		app := cmd.AppName()
		if app == "" {
			app = FallbackGroup
		}
		byApp[app] = append(byApp[app], cmd)
	}

	apps := make([]string, 0, len(byApp))
	for app := range byApp {
		apps = append(apps, app)
	}
	sort.Strings(apps)

	for _, app := range apps {
		cmds := byApp[app]
		if len(cmds) > 1 {
			sub := root.AddMenu(app)
			for _, cmd := range cmds {
				g.addToMenu(sub, cmd)
			}
		} else {
			// A single-command group flattens into the parent menu.
			g.addToMenu(root, cmds[0])
		}
	}
}

// DestroyMenu releases the action table. The menu widget itself belongs
// to the host and is left in place.
func (g *Generator) DestroyMenu() {
	g.actions.clear()
	g.actionIDs = make(map[string]ports.ActionID)
}

// ActionCount reports the number of live action bindings.
func (g *Generator) ActionCount() int { return g.actions.len() }

// Dispatch executes the callback bound to id. Errors propagate; the
// host-facing dispatcher decides how to surface them.
func (g *Generator) Dispatch(id ports.ActionID) error {
	return g.actions.dispatch(id)
}

func (g *Generator) buildContextMenu(root ports.Menu) ports.Menu {
	ctxMenu := root.AddMenu("Current Context")

	display := g.pipelineCtx.String()
	ctxMenu.AddAction(display, g.actions.register(func() error { return nil }))
	ctxMenu.AddSeparator()

	ctxMenu.AddAction("Jump to File System", g.actions.register(g.jumpToFilesystem))
	ctxMenu.AddAction("Jump to Web", g.actions.register(g.jumpToWeb))
	return ctxMenu
}

// addToMenu binds cmd to an action, creating the action lazily on first
// use and reusing it if the command appears in multiple menus.
func (g *Generator) addToMenu(m ports.Menu, cmd domain.Command) {
	id, ok := g.actionIDs[cmd.Name]
	if !ok {
		callback := cmd.Callback
		id = g.actions.register(func() error {
			return callback(context.Background())
		})
		g.actionIDs[cmd.Name] = id
	}
	m.AddAction(cmd.Name, id)
}

func (g *Generator) jumpToFilesystem() error {
	for _, location := range g.pipelineCtx.FilesystemLocations {
		if err := g.open(location); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) jumpToWeb() error {
	if g.pipelineCtx.WebURL == "" {
		return nil
	}
	return g.open(g.pipelineCtx.WebURL)
}

// platformOpen hands the target to the OS opener. Unrecognized operating
// systems are a silent no-op.
func platformOpen(target string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "linux":
		name = "xdg-open"
	case "darwin":
		name = "open"
	case "windows":
		name, args = "cmd", []string{"/c", "start", ""}
	default:
		return nil
	}
	args = append(args, target)
	return exec.Command(name, args...).Start()
}
