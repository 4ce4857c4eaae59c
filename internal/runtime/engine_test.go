package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardenfx/stagehand/internal/hostmock"
	"github.com/ardenfx/stagehand/internal/runtime"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shotContext() *domain.Context {
	return &domain.Context{Project: "alpha", Entity: "sh010", Task: "comp"}
}

func startedEngine(t *testing.T, host *hostmock.Host, sink ports.MenuSink) *runtime.Engine {
	t.Helper()
	engine := runtime.NewEngine(host, shotContext(),
		runtime.WithMenuSink(sink),
		runtime.WithHostEvents(host))
	require.NoError(t, engine.Start(context.Background()))
	return engine
}

func TestStart_InsufficientContext(t *testing.T) {
	host := hostmock.New()
	engine := runtime.NewEngine(host, &domain.Context{})

	err := engine.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContextInsufficient)
	assert.Equal(t, domain.StatusStopped, engine.Status())
}

func TestStart_VersionGate(t *testing.T) {
	host := hostmock.New()
	host.Version = domain.Version{Major: 2, Minor: 5}
	engine := runtime.NewEngine(host, shotContext())

	err := engine.Start(context.Background())
	var fatal *domain.FatalVersionError
	require.True(t, errors.As(err, &fatal))
}

func TestStart_BuildsMenuInUIMode(t *testing.T) {
	host := hostmock.New()
	sink := &hostmock.MenuSink{}
	engine := startedEngine(t, host, sink)

	assert.Equal(t, domain.StatusActive, engine.Status())
	require.NotNil(t, sink.Root("Production Tracking"))
	assert.NotNil(t, sink.Root("Production Tracking").Submenu("Current Context"))
}

func TestStart_BatchModeSkipsMenu(t *testing.T) {
	host := hostmock.New()
	host.UIMode = false
	sink := &hostmock.MenuSink{}

	engine := runtime.NewEngine(host, shotContext(), runtime.WithMenuSink(sink))
	require.NoError(t, engine.Start(context.Background()))

	assert.Empty(t, sink.Menus)
	assert.Equal(t, domain.StatusActive, engine.Status())
}

func TestDestroy_ClearsRegistry(t *testing.T) {
	host := hostmock.New()
	sink := &hostmock.MenuSink{}
	engine := startedEngine(t, host, sink)

	engine.RegisterCommand("Work Files...", func(ctx context.Context) error { return nil },
		domain.CommandProperties{App: "tk-multi-workfiles2"})
	require.Len(t, engine.Registry().List(), 1)

	engine.Destroy(context.Background())
	assert.Equal(t, domain.StatusStopped, engine.Status())
	assert.Empty(t, engine.Registry().List())
}

func TestExecuteCommand(t *testing.T) {
	host := hostmock.New()
	engine := runtime.NewEngine(host, shotContext())
	require.NoError(t, engine.Start(context.Background()))

	ran := 0
	engine.RegisterCommand("snapshot", func(ctx context.Context) error { ran++; return nil },
		domain.CommandProperties{})

	require.NoError(t, engine.ExecuteCommand(context.Background(), "snapshot"))
	assert.Equal(t, 1, ran)

	err := engine.ExecuteCommand(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRebuildMenu_PicksUpLateCommands(t *testing.T) {
	host := hostmock.New()
	sink := &hostmock.MenuSink{}
	engine := startedEngine(t, host, sink)

	engine.RegisterCommand("Publish...", func(ctx context.Context) error { return nil },
		domain.CommandProperties{App: "tk-multi-publish2"})
	engine.RebuildMenu()

	root := sink.Root("Production Tracking")
	assert.Contains(t, root.Actions(), "Publish...")
	// Still one top-level menu after the rebuild.
	assert.Len(t, sink.Menus, 1)
}

// panickySink fails the first build to simulate a menu bar that is not
// ready yet, then behaves normally.
type panickySink struct {
	hostmock.MenuSink
	failures int
}

func (s *panickySink) NewMenu(title string) ports.Menu {
	if s.failures > 0 {
		s.failures--
		panic("menu bar not initialized")
	}
	return s.MenuSink.NewMenu(title)
}

func TestBuildMenu_RetriesAfterStartup(t *testing.T) {
	host := hostmock.New()
	sink := &panickySink{failures: 1}

	engine := runtime.NewEngine(host, shotContext(),
		runtime.WithMenuSink(sink),
		runtime.WithHostEvents(host))
	require.NoError(t, engine.Start(context.Background()))

	// First attempt panicked; nothing built yet.
	assert.Nil(t, sink.Root("Production Tracking"))

	host.CompleteStartup()
	assert.NotNil(t, sink.Root("Production Tracking"))
}
