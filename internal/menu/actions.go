package menu

import (
	"fmt"

	"github.com/ardenfx/stagehand/pkg/ports"
)

// actionTable maps stable action ids to command callbacks. Menu back-ends
// bind entries to ids, not closures, so triggering routes back through
// the table. The table is owned by one generator and cleared when the
// menu is destroyed.
type actionTable struct {
	nextID    ports.ActionID
	callbacks map[ports.ActionID]func() error
}

func newActionTable() *actionTable {
	return &actionTable{callbacks: make(map[ports.ActionID]func() error)}
}

// register stores fn and returns its id.
func (t *actionTable) register(fn func() error) ports.ActionID {
	id := t.nextID
	t.nextID++
	t.callbacks[id] = fn
	return id
}

// dispatch executes the callback for id. Callback errors propagate to the
// caller; a missing id (e.g. a stale menu entry after destroy) is an
// error rather than a silent no-op.
func (t *actionTable) dispatch(id ports.ActionID) error {
	fn, ok := t.callbacks[id]
	if !ok {
		return fmt.Errorf("no action registered for id %d", id)
	}
	return fn()
}

// clear releases all callbacks.
func (t *actionTable) clear() {
	t.callbacks = make(map[ports.ActionID]func() error)
}

func (t *actionTable) len() int { return len(t.callbacks) }
