package ports

// ActionID identifies a menu action inside the generator's action table.
// The indirection exists because menu back-ends bind entries to stable
// ids, not to arbitrary closures.
type ActionID int

// Menu is one menu node in the host's menu tree.
type Menu interface {
	// Title returns the menu's display title.
	Title() string

	// AddMenu creates and returns a nested submenu.
	AddMenu(title string) Menu

	// AddAction appends an entry that triggers the given action id when
	// selected.
	AddAction(label string, id ActionID)

	// AddSeparator appends a visual separator.
	AddSeparator()

	// Clear removes all entries from this menu.
	Clear()
}

// MenuSink is the UI facade the menu generator renders into. Exactly one
// implementation is chosen at composition time; the engine never touches
// GUI toolkit types directly.
type MenuSink interface {
	// FindMenu returns an existing top-level menu with the given title.
	FindMenu(title string) (Menu, bool)

	// NewMenu creates a new top-level menu.
	NewMenu(title string) Menu

	// SetDispatcher installs the callback invoked when any action
	// triggers. Installed once per generator.
	SetDispatcher(fn func(ActionID))
}

// Dialogs is the modal-dialog facade.
type Dialogs interface {
	Info(title, message string)
	Warning(title, message string)

	// Question presents a save/discard/cancel style prompt.
	Question(title, message string) Answer
}

// Answer is a modal question result.
type Answer int

const (
	AnswerYes Answer = iota
	AnswerNo
	AnswerCancel
)
