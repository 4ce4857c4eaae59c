// Package observability provides the Prometheus collectors tracking the
// integration's behavior inside the host: engine lifecycle, scene events,
// command executions and degraded-mode transitions.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's Prometheus collectors.
type Metrics struct {
	EngineStarts  prometheus.Counter
	EngineStops   prometheus.Counter
	SceneEvents   *prometheus.CounterVec
	CommandRuns   *prometheus.CounterVec
	Degraded      prometheus.Counter
	MenuBuilds    prometheus.Counter
	PanicsTrapped prometheus.Counter
}

// New creates and registers the collectors on reg. Passing
// prometheus.NewRegistry() keeps tests isolated; the HTTP adapter passes
// its own registry and serves it on /metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EngineStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stagehand_engine_starts_total",
			Help: "Engine instances started, including context-change restarts.",
		}),
		EngineStops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stagehand_engine_stops_total",
			Help: "Engine instances destroyed.",
		}),
		SceneEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stagehand_scene_events_total",
			Help: "Scene events received from the host, by kind.",
		}, []string{"kind"}),
		CommandRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stagehand_command_runs_total",
			Help: "Pipeline command executions, by command.",
		}, []string{"command"}),
		Degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stagehand_degraded_total",
			Help: "Transitions into the disabled (degraded) state.",
		}),
		MenuBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stagehand_menu_builds_total",
			Help: "Menu tree builds.",
		}),
		PanicsTrapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stagehand_panics_trapped_total",
			Help: "Panics caught at the host callback boundary.",
		}),
	}

	reg.MustRegister(
		m.EngineStarts, m.EngineStops, m.SceneEvents, m.CommandRuns,
		m.Degraded, m.MenuBuilds, m.PanicsTrapped,
	)
	return m
}

// NewNop returns metrics backed by an unexported registry, for callers
// that do not care about observability.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
