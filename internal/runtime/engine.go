// Package runtime contains the engine core: the per-session Engine bound
// to one pipeline context, the host version gate, and the scene-event
// bridge that restarts engines as the context changes.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardenfx/stagehand/internal/config"
	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/internal/menu"
	"github.com/ardenfx/stagehand/internal/observability"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/ardenfx/stagehand/pkg/registry"
)

// Engine binds one pipeline context to one running host session. At most
// one engine is active per bridge; a context change replaces the engine
// wholesale instead of mutating it.
type Engine struct {
	host        ports.Host
	events      ports.HostEvents
	sink        ports.MenuSink
	dialogs     ports.Dialogs
	registry    *registry.Registry
	pipelineCtx *domain.Context
	settings    config.Settings
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	metrics     *observability.Metrics
	compat      *Compat

	gen         *menu.Generator
	status      domain.EngineStatus
	menuRetried bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithSettings sets the engine settings.
func WithSettings(settings config.Settings) EngineOption {
	return func(e *Engine) { e.settings = settings }
}

// WithMenuSink sets the UI menu facade. Without one the engine runs
// menu-less (batch mode).
func WithMenuSink(sink ports.MenuSink) EngineOption {
	return func(e *Engine) { e.sink = sink }
}

// WithDialogs sets the modal dialog facade.
func WithDialogs(dialogs ports.Dialogs) EngineOption {
	return func(e *Engine) { e.dialogs = dialogs }
}

// WithHostEvents sets the host event source used for deferred menu
// building.
func WithHostEvents(events ports.HostEvents) EngineOption {
	return func(e *Engine) { e.events = events }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) { e.hooks = hooks }
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(m *observability.Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithRegistry injects a pre-populated command registry.
func WithRegistry(r *registry.Registry) EngineOption {
	return func(e *Engine) { e.registry = r }
}

// WithCompat injects a shared version checker. The bridge shares one
// across restarts so the warning stays once-per-process.
func WithCompat(c *Compat) EngineOption {
	return func(e *Engine) { e.compat = c }
}

// NewEngine creates an engine bound to pipelineCtx.
func NewEngine(host ports.Host, pipelineCtx *domain.Context, opts ...EngineOption) *Engine {
	e := &Engine{
		host:        host,
		pipelineCtx: pipelineCtx,
		settings:    config.Defaults(),
		logger:      logging.NewNop(),
		status:      domain.StatusStopped,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = registry.New()
	}
	if e.metrics == nil {
		e.metrics = observability.NewNop()
	}
	if e.compat == nil {
		e.compat = NewCompat(e.dialogs, e.settings.CompatibilityDialogMinVersion,
			WithCompatLogger(e.logger))
	}
	e.logger = e.logger.With("engine_context", pipelineCtx.String())
	return e
}

// Start validates the context and host version, then builds the menu in
// UI mode. A menu build racing the host's own menu-bar readiness is
// retried once via the startup-complete callback.
func (e *Engine) Start(ctx context.Context) error {
	if !e.pipelineCtx.Sufficient() {
		return fmt.Errorf("cannot start engine for %s: %w", e.pipelineCtx, domain.ErrContextInsufficient)
	}

	if err := e.compat.Check(e.host.Info(), e.host.UIEnabled()); err != nil {
		return err
	}

	e.logger.Debug("starting engine")
	if e.host.UIEnabled() && e.sink != nil {
		e.buildMenu()
	}

	e.status = domain.StatusActive
	e.metrics.EngineStarts.Inc()
	if e.hooks.OnEngineStart != nil {
		e.hooks.OnEngineStart(ctx, e.pipelineCtx)
	}
	return nil
}

// Destroy tears the engine down: menu action table released, command
// registry discarded. The menu widget stays with the host.
func (e *Engine) Destroy(ctx context.Context) {
	e.logger.Debug("destroying engine")
	if e.gen != nil {
		e.gen.DestroyMenu()
		e.gen = nil
	}
	e.registry.Clear()
	e.status = domain.StatusStopped
	e.metrics.EngineStops.Inc()
	if e.hooks.OnEngineStop != nil {
		e.hooks.OnEngineStop(ctx, e.pipelineCtx)
	}
}

// Context returns the pipeline context this engine is bound to.
func (e *Engine) Context() *domain.Context { return e.pipelineCtx }

// Status returns the engine's lifecycle status.
func (e *Engine) Status() domain.EngineStatus { return e.status }

// Registry returns the engine's command registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// RegisterCommand adds a command contributed by a sub-application.
// Commands registered after Start appear on the next menu build.
func (e *Engine) RegisterCommand(name string, fn domain.CommandFunc, props domain.CommandProperties) {
	e.registry.Register(name, fn, props)
}

// ExecuteCommand runs a registered command by name.
func (e *Engine) ExecuteCommand(ctx context.Context, name string) error {
	e.metrics.CommandRuns.WithLabelValues(name).Inc()
	return e.registry.Execute(ctx, name)
}

// RebuildMenu destroys the current generator and builds a fresh menu from
// the registry. Used after late command registration.
func (e *Engine) RebuildMenu() {
	if !e.host.UIEnabled() || e.sink == nil {
		return
	}
	if e.gen != nil {
		e.gen.DestroyMenu()
		e.gen = nil
	}
	e.buildMenu()
}

// buildMenu creates a generator and populates the menu. Menu back-ends
// may panic while the host menu bar is still initializing; the first
// failure defers a single retry to the startup-complete callback.
func (e *Engine) buildMenu() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("menu build failed", "reason", r)
			if e.menuRetried || e.events == nil {
				return
			}
			e.menuRetried = true
			e.events.SubscribeStartupComplete(func() { e.buildMenu() })
		}
	}()

	gen := menu.NewGenerator(e.sink, e.settings.MenuName, e.pipelineCtx, e.registry.List(),
		menu.WithLogger(e.logger))
	gen.CreateMenu()
	e.gen = gen
	e.metrics.MenuBuilds.Inc()
}
