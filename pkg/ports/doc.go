/*
Package ports defines the driven ports (interfaces) for the Stagehand
integration engine.

These interfaces decouple the core logic from the host application and
from external implementations, allowing the engine to work with real DCC
hosts, terminal front-ends, and test fakes alike.

# Key Interfaces

  - Host: file I/O, dirty state and version information of the DCC host.
  - HostEvents: typed scene-event and startup-complete subscriptions.
  - MenuSink / Dialogs: the UI facade, selected once at composition time.
  - ContextResolver: derives a pipeline Context from a scene path.
  - ContextStore: persists serialized contexts for process handoff.
  - DistributedLocker: coordinates version claims across machines.
*/
package ports
