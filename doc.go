/*
Package stagehand integrates a pipeline toolkit with the Katana
compositing host: it builds the production menu from registered commands,
keeps the pipeline context in sync with the opened scene, and provides
the scene-operation and publish hooks the work-file apps call.

# Concept

Stagehand treats the host as an adapter behind small interfaces (Host,
HostEvents, MenuSink, Dialogs). The engine core never touches GUI
toolkit types; a concrete host plugin supplies them at composition time.
This keeps the same engine runnable inside the host UI, in batch renders
on a farm, and under plain Go tests.

# Key Behaviors

  - Version gating: hosts below the supported minimum refuse to start;
    untested newer hosts warn once per process.
  - Context following: scene load/save events re-resolve the pipeline
    context and restart the engine when it changes. Unrecognized files
    degrade to a disabled menu instead of erroring.
  - Crash containment: panics in menu callbacks and event handlers are
    trapped and surfaced as an error menu entry, never into the host.

# Usage

Create an Integration for your host adapter and either bootstrap from a
launcher environment or start with an explicit context.

	package main

	import (
		"context"
		"log"

		"github.com/ardenfx/stagehand"
		"github.com/ardenfx/stagehand/pkg/domain"
	)

	func main() {
		ctx := context.Background()

		// host, events, sink and dialogs come from your host plugin.
		integration, err := stagehand.New(host, resolver,
			stagehand.WithUI(sink, dialogs),
			stagehand.WithHostEvents(events),
		)
		if err != nil {
			log.Fatal(err)
		}

		// Commands appear on the production menu, grouped by app.
		integration.RegisterCommand("Publish...", publishCmd, domain.CommandProperties{
			App: "tk-multi-publish2",
		})

		// Follow the artist across projects as they open files.
		if err := integration.EnableSceneSync(); err != nil {
			log.Fatal(err)
		}

		if err := integration.Bootstrap(ctx); err != nil {
			log.Fatal(err)
		}
	}
*/
package stagehand
