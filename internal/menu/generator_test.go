package menu_test

import (
	"context"
	"testing"

	"github.com/ardenfx/stagehand/internal/hostmock"
	"github.com/ardenfx/stagehand/internal/menu"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx context.Context) error { return nil }

func testContext() *domain.Context {
	return &domain.Context{
		Project:             "alpha",
		Entity:              "sh010",
		FilesystemLocations: []string{"/proj/alpha/sh010"},
		WebURL:              "https://tracker.example.com/sh010",
	}
}

func TestCreateMenu_GroupsByApp(t *testing.T) {
	commands := []domain.Command{
		{Name: "A", Callback: noop, Properties: domain.CommandProperties{App: "Foo", Type: domain.CommandTypeDefault}},
		{Name: "B", Callback: noop, Properties: domain.CommandProperties{App: "Foo", Type: domain.CommandTypeDefault}},
		{Name: "C", Callback: noop, Properties: domain.CommandProperties{App: "Bar", Type: domain.CommandTypeDefault}},
	}

	sink := &hostmock.MenuSink{}
	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), commands)
	gen.CreateMenu()

	root := sink.Root("Production Tracking")
	require.NotNil(t, root)

	// Foo has two commands and becomes a submenu.
	foo := root.Submenu("Foo")
	require.NotNil(t, foo)
	assert.Equal(t, []string{"A", "B"}, foo.Actions())

	// Bar has a single command and flattens into the root menu.
	assert.Nil(t, root.Submenu("Bar"))
	assert.Contains(t, root.Actions(), "C")
}

func TestCreateMenu_ContextMenuAndFallbackGroup(t *testing.T) {
	commands := []domain.Command{
		{Name: "Jump to Screening Room", Callback: noop, Properties: domain.CommandProperties{Type: domain.CommandTypeContextMenu}},
		{Name: "Ungrouped", Callback: noop, Properties: domain.CommandProperties{Type: domain.CommandTypeDefault}},
	}

	sink := &hostmock.MenuSink{}
	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), commands)
	gen.CreateMenu()

	root := sink.Root("Production Tracking")
	ctxMenu := root.Submenu("Current Context")
	require.NotNil(t, ctxMenu)
	assert.Contains(t, ctxMenu.Actions(), "alpha / sh010")
	assert.Contains(t, ctxMenu.Actions(), "Jump to File System")
	assert.Contains(t, ctxMenu.Actions(), "Jump to Web")
	assert.Contains(t, ctxMenu.Actions(), "Jump to Screening Room")

	// Single ungrouped command flattens under the root, not "Other Items".
	assert.Nil(t, root.Submenu(menu.FallbackGroup))
	assert.Contains(t, root.Actions(), "Ungrouped")
}

func TestSetupRootMenu_ReusesExisting(t *testing.T) {
	sink := &hostmock.MenuSink{}
	existing := sink.NewMenu("Production Tracking")

	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), nil)
	root := gen.SetupRootMenu()

	assert.Same(t, existing, root)
	assert.Len(t, sink.Menus, 1)
}

func TestActionsReusedAcrossMenus(t *testing.T) {
	calls := 0
	commands := []domain.Command{
		{
			Name:     "Work Files...",
			Callback: func(ctx context.Context) error { calls++; return nil },
			// context_menu items also surface in their app group when an
			// app is set; either way the binding must be created once.
			Properties: domain.CommandProperties{Type: domain.CommandTypeContextMenu},
		},
	}

	sink := &hostmock.MenuSink{}
	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), commands)
	gen.CreateMenu()

	root := sink.Root("Production Tracking")
	ctxMenu := root.Submenu("Current Context")

	var item hostmock.MenuItem
	found := false
	for _, it := range ctxMenu.Items {
		if it.Label == "Work Files..." {
			item = it
			found = true
		}
	}
	require.True(t, found)

	sink.Trigger(item.ActionID)
	sink.Trigger(item.ActionID)
	assert.Equal(t, 2, calls)
}

func TestJumpToFilesystem(t *testing.T) {
	var opened []string
	sink := &hostmock.MenuSink{}
	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), nil,
		menu.WithOpener(func(target string) error {
			opened = append(opened, target)
			return nil
		}))
	gen.CreateMenu()

	root := sink.Root("Production Tracking")
	ctxMenu := root.Submenu("Current Context")
	for _, item := range ctxMenu.Items {
		switch item.Label {
		case "Jump to File System", "Jump to Web":
			sink.Trigger(item.ActionID)
		}
	}

	assert.Equal(t, []string{"/proj/alpha/sh010", "https://tracker.example.com/sh010"}, opened)
}

func TestDestroyMenu_ClearsActionTable(t *testing.T) {
	commands := []domain.Command{
		{Name: "A", Callback: noop, Properties: domain.CommandProperties{App: "Foo"}},
	}

	sink := &hostmock.MenuSink{}
	gen := menu.NewGenerator(sink, "Production Tracking", testContext(), commands)
	gen.CreateMenu()
	require.Positive(t, gen.ActionCount())

	gen.DestroyMenu()
	assert.Zero(t, gen.ActionCount())

	// The menu widget is host-owned and survives.
	assert.NotNil(t, sink.Root("Production Tracking"))
}
