package domain

import "context"

// SceneEventKind categorizes host scene notifications.
type SceneEventKind string

const (
	SceneLoad SceneEventKind = "scene_load"
	SceneSave SceneEventKind = "scene_save"
)

// SceneEvent is the typed payload delivered when the host loads or saves
// a scene file. FilePath is empty for a new, never-saved scene.
type SceneEvent struct {
	Kind     SceneEventKind
	FilePath string
	Dirty    bool
}

// LifecycleHooks defines callbacks for engine observability. All fields
// are optional; nil hooks are skipped.
type LifecycleHooks struct {
	// OnEngineStart fires after an engine bound to pipelineCtx finished starting.
	OnEngineStart func(ctx context.Context, pipelineCtx *Context)

	// OnEngineStop fires after an engine was destroyed.
	OnEngineStop func(ctx context.Context, pipelineCtx *Context)

	// OnContextChange fires when a scene event resolved a context that
	// differs from the active one, before the engine restart.
	OnContextChange func(ctx context.Context, from, to *Context)

	// OnDegraded fires when the integration drops into the disabled
	// state instead of crashing (context resolution or startup failure).
	OnDegraded func(ctx context.Context, reason string)
}
