package stagehand

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ardenfx/stagehand/internal/bootstrap"
	"github.com/ardenfx/stagehand/internal/config"
	"github.com/ardenfx/stagehand/internal/hooks"
	"github.com/ardenfx/stagehand/internal/observability"
	"github.com/ardenfx/stagehand/internal/runtime"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/ardenfx/stagehand/pkg/template"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the library version reported by the CLI and remote
// adapters.
const Version = "0.3.0"

// Integration is the high-level entry point for the library. It wraps
// the internal runtime (engine, version gate, scene-event bridge) and
// provides a simplified API for host plugins and the CLI.
type Integration struct {
	host     ports.Host
	events   ports.HostEvents
	resolver ports.ContextResolver
	sink     ports.MenuSink
	dialogs  ports.Dialogs

	settings config.Settings
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	registry *prometheus.Registry
	metrics  *observability.Metrics
	compat   *runtime.Compat
	bridge   *runtime.Bridge

	// catalog holds commands contributed by sub-applications. Engines
	// come and go with the context; the catalog re-registers into each
	// new one.
	mu      sync.Mutex
	catalog []domain.Command
}

// Option defines a functional option for configuring the Integration.
type Option func(*Integration)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Integration) { i.logger = logger }
}

// WithSettings sets the engine settings.
func WithSettings(settings config.Settings) Option {
	return func(i *Integration) { i.settings = settings }
}

// WithUI wires the host menu and dialog facades. Without it the
// integration runs menu-less (batch mode).
func WithUI(sink ports.MenuSink, dialogs ports.Dialogs) Option {
	return func(i *Integration) {
		i.sink = sink
		i.dialogs = dialogs
	}
}

// WithHostEvents wires the host event source used for scene sync and
// deferred menu building.
func WithHostEvents(events ports.HostEvents) Option {
	return func(i *Integration) { i.events = events }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(i *Integration) { i.hooks = hooks }
}

// New creates an Integration bound to a host. The resolver derives
// pipeline contexts from scene paths; pass nil when scene sync is not
// used.
func New(host ports.Host, resolver ports.ContextResolver, opts ...Option) (*Integration, error) {
	if host == nil {
		return nil, fmt.Errorf("a host is required")
	}

	i := &Integration{
		host:     host,
		resolver: resolver,
		settings: config.Defaults(),
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	i.logger = i.logger.With("host", host.Info().Name)

	i.registry = prometheus.NewRegistry()
	i.metrics = observability.New(i.registry)
	i.compat = runtime.NewCompat(i.dialogs, i.settings.CompatibilityDialogMinVersion,
		runtime.WithCompatLogger(i.logger))

	i.bridge = runtime.NewBridge(host, i.events, resolver, i.engineFactory,
		runtime.WithBridgeLogger(i.logger),
		runtime.WithBridgeUI(i.sink, i.dialogs, i.settings.MenuName),
		runtime.WithBridgeHooks(i.hooks),
		runtime.WithBridgeMetrics(i.metrics))

	return i, nil
}

// engineFactory builds and starts an engine for a resolved context,
// seeding it with the command catalog.
func (i *Integration) engineFactory(ctx context.Context, pipelineCtx *domain.Context) (*runtime.Engine, error) {
	engine := runtime.NewEngine(i.host, pipelineCtx,
		runtime.WithLogger(i.logger),
		runtime.WithSettings(i.settings),
		runtime.WithMenuSink(i.sink),
		runtime.WithDialogs(i.dialogs),
		runtime.WithHostEvents(i.events),
		runtime.WithLifecycleHooks(i.hooks),
		runtime.WithMetrics(i.metrics),
		runtime.WithCompat(i.compat),
	)

	i.mu.Lock()
	for _, cmd := range i.catalog {
		engine.RegisterCommand(cmd.Name, cmd.Callback, cmd.Properties)
	}
	i.mu.Unlock()

	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

// Start brings up an engine for an explicitly known context, e.g. when
// the host was launched directly into a work area.
func (i *Integration) Start(ctx context.Context, pipelineCtx *domain.Context) error {
	engine, err := i.engineFactory(ctx, pipelineCtx)
	if err != nil {
		return err
	}
	i.bridge.Adopt(engine)
	return nil
}

// Bootstrap brings up an engine from the launch environment written by
// the launcher (SGTK_ENGINE, SGTK_CONTEXT, SGTK_FILE_TO_OPEN).
func (i *Integration) Bootstrap(ctx context.Context) error {
	b := bootstrap.New(i.host,
		bootstrap.WithLogger(i.logger),
		bootstrap.WithSettings(i.settings),
		bootstrap.WithUI(i.sink, i.dialogs),
		bootstrap.WithHostEvents(i.events))

	engine, err := b.Run(ctx)
	if err != nil {
		return err
	}
	i.bridge.Adopt(engine)
	return nil
}

// EnableSceneSync subscribes to host scene events so the engine follows
// the opened file across projects. Safe to call more than once.
func (i *Integration) EnableSceneSync() error {
	if i.events == nil {
		return fmt.Errorf("scene sync requires host events; use WithHostEvents")
	}
	if i.resolver == nil {
		return fmt.Errorf("scene sync requires a context resolver")
	}
	i.bridge.EnsureSubscribed()
	return nil
}

// Stop tears down the active engine, if any.
func (i *Integration) Stop(ctx context.Context) {
	if engine := i.bridge.Current(); engine != nil {
		engine.Destroy(ctx)
		i.bridge.Adopt(nil)
	}
}

// RegisterCommand adds a command to the catalog and to the running
// engine, if one is active.
func (i *Integration) RegisterCommand(name string, fn domain.CommandFunc, props domain.CommandProperties) {
	i.mu.Lock()
	i.catalog = append(i.catalog, domain.Command{Name: name, Callback: fn, Properties: props})
	i.mu.Unlock()

	if engine := i.bridge.Current(); engine != nil {
		engine.RegisterCommand(name, fn, props)
		engine.RebuildMenu()
	}
}

// Status reports the integration state and, when degraded, the reason.
func (i *Integration) Status() (domain.EngineStatus, string) {
	return i.bridge.Status(), i.bridge.DegradedReason()
}

// Context returns the active pipeline context, or nil.
func (i *Integration) Context() *domain.Context {
	if engine := i.bridge.Current(); engine != nil {
		return engine.Context()
	}
	return nil
}

// Commands lists the commands registered with the active engine.
func (i *Integration) Commands() []domain.Command {
	if engine := i.bridge.Current(); engine != nil {
		return engine.Registry().List()
	}
	return nil
}

// Execute runs a registered command by name.
func (i *Integration) Execute(ctx context.Context, name string) error {
	engine := i.bridge.Current()
	if engine == nil {
		return fmt.Errorf("no active engine")
	}
	return engine.ExecuteCommand(ctx, name)
}

// Gatherer exposes the integration's metrics registry, for mounting on
// an HTTP /metrics endpoint.
func (i *Integration) Gatherer() prometheus.Gatherer {
	return i.registry
}

// SceneOperation returns the scene-operation hook bound to this host.
func (i *Integration) SceneOperation() *hooks.SceneOperation {
	return hooks.NewSceneOperation(i.host,
		hooks.WithSceneLogger(i.logger),
		hooks.WithSceneDialogs(i.dialogs))
}

// Publisher returns the publish version-up hook configured from the
// work-file template in the settings.
func (i *Integration) Publisher(opts ...hooks.PublishOption) (*hooks.Publisher, error) {
	if i.settings.WorkTemplate == "" {
		return nil, fmt.Errorf("no work template configured")
	}
	tmpl, err := template.Parse(i.settings.WorkTemplate)
	if err != nil {
		return nil, err
	}
	opts = append([]hooks.PublishOption{hooks.WithPublishLogger(i.logger)}, opts...)
	return hooks.NewPublisher(i.host, tmpl, opts...), nil
}
