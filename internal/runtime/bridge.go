package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/internal/observability"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// EngineFactory creates a started engine for a freshly resolved context.
// Returning an error wrapping domain.ErrContextInsufficient selects the
// degraded state instead of the error menu.
type EngineFactory func(ctx context.Context, pipelineCtx *domain.Context) (*Engine, error)

// Bridge keeps the pipeline context in sync with the host scene. It owns
// the one-time event subscription and the at-most-one-active-engine
// invariant; a bug anywhere below it must never interrupt the host's own
// workflow.
type Bridge struct {
	host     ports.Host
	events   ports.HostEvents
	resolver ports.ContextResolver
	factory  EngineFactory
	sink     ports.MenuSink
	dialogs  ports.Dialogs
	menuName string
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	metrics  *observability.Metrics

	subscribed     bool
	current        *Engine
	degradedReason string
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeLogger sets the bridge logger.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) { b.logger = logger }
}

// WithBridgeUI sets the menu facade used for the disabled and error
// menus, and its title.
func WithBridgeUI(sink ports.MenuSink, dialogs ports.Dialogs, menuName string) BridgeOption {
	return func(b *Bridge) {
		b.sink = sink
		b.dialogs = dialogs
		b.menuName = menuName
	}
}

// WithBridgeHooks registers observability hooks.
func WithBridgeHooks(hooks domain.LifecycleHooks) BridgeOption {
	return func(b *Bridge) { b.hooks = hooks }
}

// WithBridgeMetrics sets the Prometheus collectors.
func WithBridgeMetrics(m *observability.Metrics) BridgeOption {
	return func(b *Bridge) { b.metrics = m }
}

// NewBridge creates a scene-event bridge.
func NewBridge(host ports.Host, events ports.HostEvents, resolver ports.ContextResolver, factory EngineFactory, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		host:     host,
		events:   events,
		resolver: resolver,
		factory:  factory,
		menuName: "Production Tracking",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.metrics == nil {
		b.metrics = observability.NewNop()
	}
	return b
}

// EnsureSubscribed attaches the scene-event listener. Calling it any
// number of times attaches the listener exactly once.
func (b *Bridge) EnsureSubscribed() {
	if b.subscribed {
		return
	}
	b.events.SubscribeScene(b.OnSceneEvent)
	b.subscribed = true
}

// Adopt installs an already-running engine (from the bootstrap) as the
// bridge's current one.
func (b *Bridge) Adopt(engine *Engine) {
	b.current = engine
	b.degradedReason = ""
}

// Current returns the active engine, or nil.
func (b *Bridge) Current() *Engine { return b.current }

// Status reports the integration state.
func (b *Bridge) Status() domain.EngineStatus {
	switch {
	case b.current != nil:
		return domain.StatusActive
	case b.degradedReason != "":
		return domain.StatusDegraded
	default:
		return domain.StatusStopped
	}
}

// DegradedReason returns why the toolkit is disabled, or "".
func (b *Bridge) DegradedReason() string { return b.degradedReason }

// OnSceneEvent handles a host scene load/save notification. Exceptions
// are carefully contained: a resolution failure degrades, anything else
// surfaces as an error menu entry, and the host keeps running either way.
func (b *Bridge) OnSceneEvent(evt domain.SceneEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.metrics.PanicsTrapped.Inc()
			b.errorMenu(fmt.Sprintf("%v\n\n%s", r, debug.Stack()))
		}
	}()

	b.metrics.SceneEvents.WithLabelValues(string(evt.Kind)).Inc()

	// A new, never-saved scene carries no context information.
	if evt.FilePath == "" {
		return
	}

	ctx := context.Background()

	// The file may belong to another project entirely; resolve from
	// scratch, inheriting from the current context when possible.
	var currentCtx *domain.Context
	if b.current != nil {
		currentCtx = b.current.Context()
	}
	newCtx, err := b.resolver.FromPath(ctx, evt.FilePath, currentCtx)
	if err != nil {
		b.disable(ctx, (&domain.ResolutionError{Path: evt.FilePath, Err: err}).Error())
		return
	}

	b.refresh(ctx, newCtx)
}

// refresh restarts the engine when newCtx differs from the active
// context.
func (b *Bridge) refresh(ctx context.Context, newCtx *domain.Context) {
	if b.current != nil {
		if b.current.Context().Equal(newCtx) {
			// No need to restart the engine.
			return
		}
		if b.hooks.OnContextChange != nil {
			b.hooks.OnContextChange(ctx, b.current.Context(), newCtx)
		}
		b.current.Destroy(ctx)
		b.current = nil
	}

	engine, err := b.factory(ctx, newCtx)
	if err != nil {
		// An insufficient context disables the toolkit rather than
		// erroring; the user enables it again by opening another file.
		b.disable(ctx, err.Error())
		return
	}
	b.current = engine
	b.degradedReason = ""
}

// disable switches to the degraded "toolkit disabled" state.
func (b *Bridge) disable(ctx context.Context, reason string) {
	b.degradedReason = reason
	b.metrics.Degraded.Inc()
	if b.hooks.OnDegraded != nil {
		b.hooks.OnDegraded(ctx, reason)
	}

	if b.current != nil {
		b.current.Destroy(ctx)
		b.current = nil
	}

	if !b.host.UIEnabled() || b.sink == nil {
		b.logger.Warn("toolkit disabled", "reason", reason)
		return
	}

	b.noticeMenu("Toolkit is disabled", "Toolkit is disabled",
		"The pipeline integration is disabled because the file you have "+
			"opened is not recognized, so no context can be determined for it. "+
			"To enable the integration again, open another file.\n\nDetails: "+reason)
}

// errorMenu surfaces an unexpected failure as a clickable menu entry with
// the captured stack trace. Called from the recover path only.
func (b *Bridge) errorMenu(message string) {
	full := "The toolkit encountered a problem starting the engine.\n\n" + message
	if !b.host.UIEnabled() || b.sink == nil {
		b.logger.Error("toolkit error", "detail", full)
		return
	}
	b.noticeMenu("[Toolkit Error - Click for details]", "Toolkit encountered a problem", full)
}

// noticeMenu replaces the pipeline menu with a single entry that shows
// details on click.
func (b *Bridge) noticeMenu(label, title, message string) {
	root, ok := b.sink.FindMenu(b.menuName)
	if !ok {
		root = b.sink.NewMenu(b.menuName)
	}
	root.Clear()

	const noticeAction ports.ActionID = 0
	b.sink.SetDispatcher(func(id ports.ActionID) {
		if id == noticeAction && b.dialogs != nil {
			b.dialogs.Info(title, message)
		}
	})
	root.AddAction(label, noticeAction)
}
