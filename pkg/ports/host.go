package ports

import (
	"github.com/ardenfx/stagehand/pkg/domain"
)

// Host abstracts the DCC application the engine runs inside.
//
// Implementations are driven by the host's single UI thread; methods are
// never called concurrently.
type Host interface {
	// Info returns the host's name and reported version.
	Info() domain.HostInfo

	// UIEnabled reports whether the host runs interactively or in batch
	// mode (e.g. a render farm process).
	UIEnabled() bool

	// CurrentFile returns the path of the currently open scene, or ""
	// for a new, never-saved scene.
	CurrentFile() string

	// LoadFile opens the scene at path.
	LoadFile(path string) error

	// SaveFile saves the current scene to path.
	SaveFile(path string) error

	// IsDirty reports whether the scene has unsaved changes.
	IsDirty() bool
}

// HostEvents exposes the host's callback hooks as typed subscriptions.
// The host is the driver: it invokes subscribers synchronously on its own
// event loop.
type HostEvents interface {
	// SubscribeScene attaches fn to the host's scene-load and scene-save
	// hooks. Each call attaches one more subscriber; idempotency is the
	// caller's concern (see runtime.Bridge).
	SubscribeScene(fn func(domain.SceneEvent))

	// SubscribeStartupComplete defers fn until the host finished its own
	// startup (menu bar ready). If startup already completed, fn runs
	// immediately.
	SubscribeStartupComplete(fn func())
}
