package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/launcher"
)

// batchHost adapts the CLI process itself as a minimal headless host.
// The real Katana plugin supplies its own adapter; this one exists so
// the serve and bootstrap commands can run engines on a farm blade or
// in a debugging shell.
type batchHost struct {
	version domain.Version
	file    string
	ui      bool

	sceneSubs []func(domain.SceneEvent)
}

// newBatchHost reads the host version from KATANA_RELEASE, the variable
// Katana sets for its child processes. Without it the version reports
// as the newest tested release. ui marks the session interactive so the
// engine renders menus to the console.
func newBatchHost(ui bool) *batchHost {
	version := domain.Version{Major: 6, Minor: 0, Release: 1}
	if release, ok := os.LookupEnv(launcher.EnvRelease); ok {
		if parsed, err := domain.ParseVersion(release); err == nil {
			version = parsed
		}
	}
	return &batchHost{version: version, ui: ui}
}

func (h *batchHost) Info() domain.HostInfo {
	return domain.HostInfo{Name: "Katana", Version: h.version}
}

func (h *batchHost) UIEnabled() bool     { return h.ui }
func (h *batchHost) CurrentFile() string { return h.file }
func (h *batchHost) IsDirty() bool       { return false }

func (h *batchHost) LoadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %q: %w", path, err)
	}
	h.file = path
	for _, fn := range h.sceneSubs {
		fn(domain.SceneEvent{Kind: domain.SceneLoad, FilePath: path})
	}
	return nil
}

func (h *batchHost) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o775); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o664)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	h.file = path
	for _, fn := range h.sceneSubs {
		fn(domain.SceneEvent{Kind: domain.SceneSave, FilePath: path})
	}
	return nil
}

func (h *batchHost) SubscribeScene(fn func(domain.SceneEvent)) {
	h.sceneSubs = append(h.sceneSubs, fn)
}

func (h *batchHost) SubscribeStartupComplete(fn func()) {
	// The CLI has no deferred startup phase.
	fn()
}
