// Package bootstrap starts an engine inside a freshly launched host
// process, driven by the environment contract written by the launcher.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardenfx/stagehand/internal/config"
	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/internal/runtime"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/launcher"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// Bootstrap reads the launch environment and starts the engine.
type Bootstrap struct {
	host    ports.Host
	events  ports.HostEvents
	sink    ports.MenuSink
	dialogs ports.Dialogs

	settings config.Settings
	logger   *slog.Logger

	lookupEnv func(key string) (string, bool)
	unsetEnv  func(key string) error
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithLogger sets the bootstrap logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bootstrap) { b.logger = logger }
}

// WithSettings sets the engine settings.
func WithSettings(settings config.Settings) Option {
	return func(b *Bootstrap) { b.settings = settings }
}

// WithUI sets the menu and dialog facades passed to the engine.
func WithUI(sink ports.MenuSink, dialogs ports.Dialogs) Option {
	return func(b *Bootstrap) { b.sink, b.dialogs = sink, dialogs }
}

// WithHostEvents sets the host event source.
func WithHostEvents(events ports.HostEvents) Option {
	return func(b *Bootstrap) { b.events = events }
}

// WithEnv overrides environment access, for tests.
func WithEnv(lookup func(string) (string, bool), unset func(string) error) Option {
	return func(b *Bootstrap) { b.lookupEnv, b.unsetEnv = lookup, unset }
}

// New creates a bootstrap for the given host.
func New(host ports.Host, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		host:      host,
		settings:  config.Defaults(),
		logger:    logging.NewNop(),
		lookupEnv: os.LookupEnv,
		unsetEnv:  os.Unsetenv,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run reads the launch contract, starts an engine bound to the launched
// context, and opens the requested file when one was passed along. The
// contract variables are removed from the environment afterwards so
// host processes spawned later do not re-bootstrap against stale values.
func (b *Bootstrap) Run(ctx context.Context) (*runtime.Engine, error) {
	defer b.scrubEnv()

	engineName, ok := b.lookupEnv(launcher.EnvEngine)
	if !ok {
		b.logger.Error("bootstrap aborted", "missing", launcher.EnvEngine)
		return nil, fmt.Errorf("%s: %w", launcher.EnvEngine, domain.ErrMissingEnvironment)
	}
	serialized, ok := b.lookupEnv(launcher.EnvContext)
	if !ok {
		b.logger.Error("bootstrap aborted", "missing", launcher.EnvContext)
		return nil, fmt.Errorf("%s: %w", launcher.EnvContext, domain.ErrMissingEnvironment)
	}

	pipelineCtx, err := domain.DeserializeContext(serialized)
	if err != nil {
		b.logger.Error("bootstrap aborted", "error", err)
		return nil, fmt.Errorf("invalid %s payload: %w", launcher.EnvContext, err)
	}

	logger := b.logger.With("engine", engineName)
	engine := runtime.NewEngine(b.host, pipelineCtx,
		runtime.WithLogger(logger),
		runtime.WithSettings(b.settings),
		runtime.WithMenuSink(b.sink),
		runtime.WithDialogs(b.dialogs),
		runtime.WithHostEvents(b.events),
	)
	if err := engine.Start(ctx); err != nil {
		logger.Error("engine failed to start", "error", err)
		return nil, err
	}

	if fileToOpen, ok := b.lookupEnv(launcher.EnvFileToOpen); ok && fileToOpen != "" {
		if err := b.host.LoadFile(fileToOpen); err != nil {
			// The engine is up; a bad file request is not fatal.
			logger.Error("could not open requested file", "path", fileToOpen, "error", err)
		}
	}

	logger.Info("engine bootstrapped", "context", pipelineCtx.String())
	return engine, nil
}

// scrubEnv removes the one-shot launch contract variables.
func (b *Bootstrap) scrubEnv() {
	for _, key := range []string{launcher.EnvEngine, launcher.EnvContext, launcher.EnvFileToOpen} {
		if err := b.unsetEnv(key); err != nil {
			b.logger.Warn("could not unset launch variable", "key", key, "error", err)
		}
	}
}
