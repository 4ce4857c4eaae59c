// Package hostmock provides a scripted in-memory host used by tests: it
// tracks the current file and dirty flag, records load/save calls, fires
// scene events synchronously like a real host event loop, and answers
// dialogs from a queue.
package hostmock

import (
	"fmt"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// Host implements ports.Host and ports.HostEvents.
type Host struct {
	Name      string
	Version   domain.Version
	UIMode    bool
	File      string
	Dirty     bool
	LoadErr   error
	SaveErr   error
	LoadCalls []string
	SaveCalls []string

	sceneSubs   []func(domain.SceneEvent)
	startupSubs []func()
	startupDone bool
}

// New returns a UI-mode host at version 6.0v2.
func New() *Host {
	return &Host{
		Name:    "Katana",
		Version: domain.Version{Major: 6, Minor: 0, Release: 2},
		UIMode:  true,
	}
}

func (h *Host) Info() domain.HostInfo {
	return domain.HostInfo{Name: h.Name, Version: h.Version}
}

func (h *Host) UIEnabled() bool     { return h.UIMode }
func (h *Host) CurrentFile() string { return h.File }
func (h *Host) IsDirty() bool       { return h.Dirty }

func (h *Host) LoadFile(path string) error {
	h.LoadCalls = append(h.LoadCalls, path)
	if h.LoadErr != nil {
		return h.LoadErr
	}
	h.File = path
	h.Dirty = false
	return nil
}

func (h *Host) SaveFile(path string) error {
	h.SaveCalls = append(h.SaveCalls, path)
	if h.SaveErr != nil {
		return h.SaveErr
	}
	h.File = path
	h.Dirty = false
	return nil
}

func (h *Host) SubscribeScene(fn func(domain.SceneEvent)) {
	h.sceneSubs = append(h.sceneSubs, fn)
}

func (h *Host) SubscribeStartupComplete(fn func()) {
	if h.startupDone {
		fn()
		return
	}
	h.startupSubs = append(h.startupSubs, fn)
}

// SceneSubscribers reports how many scene subscribers are attached.
func (h *Host) SceneSubscribers() int { return len(h.sceneSubs) }

// FireScene synchronously delivers a scene event to all subscribers,
// mimicking the host's single-threaded callback dispatch.
func (h *Host) FireScene(evt domain.SceneEvent) {
	for _, fn := range h.sceneSubs {
		fn(evt)
	}
}

// CompleteStartup marks the host's startup finished and flushes deferred
// callbacks.
func (h *Host) CompleteStartup() {
	h.startupDone = true
	for _, fn := range h.startupSubs {
		fn()
	}
	h.startupSubs = nil
}

// Dialogs implements ports.Dialogs with recorded output and scripted
// answers.
type Dialogs struct {
	Infos    []string
	Warnings []string

	// Answers is consumed front-to-back by Question; when exhausted,
	// Question returns AnswerCancel.
	Answers []ports.Answer
}

func (d *Dialogs) Info(title, message string) {
	d.Infos = append(d.Infos, fmt.Sprintf("%s: %s", title, message))
}

func (d *Dialogs) Warning(title, message string) {
	d.Warnings = append(d.Warnings, fmt.Sprintf("%s: %s", title, message))
}

func (d *Dialogs) Question(title, message string) ports.Answer {
	if len(d.Answers) == 0 {
		return ports.AnswerCancel
	}
	ans := d.Answers[0]
	d.Answers = d.Answers[1:]
	return ans
}
