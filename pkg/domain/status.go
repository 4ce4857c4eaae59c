package domain

// EngineStatus describes the integration's current state.
type EngineStatus string

const (
	// StatusActive means an engine is running with a valid context.
	StatusActive EngineStatus = "active"

	// StatusDegraded means the toolkit is disabled for the current scene
	// (unresolvable context or failed engine start) but the host keeps
	// working normally.
	StatusDegraded EngineStatus = "degraded"

	// StatusStopped means no engine is running.
	StatusStopped EngineStatus = "stopped"
)
